// Package models defines the core domain records for the ledger.
//
// # Records
//
// Six record types are persisted by the store:
//   - Person: someone who shares expenses
//   - Card: a credit card, debit card, or account that transactions are charged to
//   - Group: a named set of people that owns transactions
//   - Transaction: one expense, split among the group's people
//   - Payment: a partial or full settlement of one person's share of a transaction
//   - MonthlyCardStatus: the paid/pending flag of one card for one month
//
// PersonSplit is embedded in Transaction and is never stored on its own.
//
// # Design Principles
//
// 1. **IDs, not pointers**: relationships are ID strings so records stay flat
// 2. **Decimal amounts**: every amount is a decimal.Decimal, never a float
// 3. **Typed updates**: partial edits go through an *Update struct whose
//    non-nil fields are the only ones that change
// 4. **Derived values stay derived**: balances and monthly totals are computed
//    by the calculator package and are never stored here
package models
