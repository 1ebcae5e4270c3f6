package service

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/storage"
)

// PersonService implements the Connect PersonService
type PersonService struct {
	store storage.Store
}

// NewPersonService creates a new PersonService with the given storage backend.
func NewPersonService(store storage.Store) *PersonService {
	return &PersonService{store: store}
}

func (s *PersonService) register(mux *http.ServeMux, opts []connect.HandlerOption) {
	handle(mux, PersonServiceCreatePersonProcedure, s.CreatePerson, opts)
	handle(mux, PersonServiceListPersonsProcedure, s.ListPersons, opts)
	handle(mux, PersonServiceUpdatePersonProcedure, s.UpdatePerson, opts)
	handle(mux, PersonServiceDeletePersonProcedure, s.DeletePerson, opts)
}

// CreatePerson creates a new person.
func (s *PersonService) CreatePerson(ctx context.Context, req *connect.Request[CreatePersonRequest]) (*connect.Response[CreatePersonResponse], error) {
	slog.Info("CreatePerson request received", "name", req.Msg.Name)

	person := &models.Person{Name: strings.TrimSpace(req.Msg.Name)}
	if err := person.Validate(); err != nil {
		return nil, fail("CreatePerson", err)
	}

	if err := s.store.CreatePerson(ctx, person); err != nil {
		return nil, fail("CreatePerson", err)
	}

	slog.Info("Person created", "person_id", person.ID)

	return connect.NewResponse(&CreatePersonResponse{Person: person}), nil
}

// ListPersons retrieves all persons.
func (s *PersonService) ListPersons(ctx context.Context, req *connect.Request[ListPersonsRequest]) (*connect.Response[ListPersonsResponse], error) {
	persons, err := s.store.ListPersons(ctx)
	if err != nil {
		return nil, fail("ListPersons", err)
	}

	slog.Info("ListPersons successful", "count", len(persons))

	return connect.NewResponse(&ListPersonsResponse{Persons: nonNil(persons)}), nil
}

// UpdatePerson applies the set fields of the request to a person.
func (s *PersonService) UpdatePerson(ctx context.Context, req *connect.Request[UpdatePersonRequest]) (*connect.Response[UpdatePersonResponse], error) {
	slog.Info("UpdatePerson request received", "person_id", req.Msg.PersonID)

	person, err := s.store.GetPerson(ctx, req.Msg.PersonID)
	if err != nil {
		return nil, fail("UpdatePerson", err, "person_id", req.Msg.PersonID)
	}

	req.Msg.PersonUpdate.Apply(person)
	if err := person.Validate(); err != nil {
		return nil, fail("UpdatePerson", err, "person_id", person.ID)
	}

	if err := s.store.UpdatePerson(ctx, person); err != nil {
		return nil, fail("UpdatePerson", err, "person_id", person.ID)
	}

	slog.Info("Person updated", "person_id", person.ID)

	return connect.NewResponse(&UpdatePersonResponse{Person: person}), nil
}

// DeletePerson removes a person. Their splits and payments are kept.
func (s *PersonService) DeletePerson(ctx context.Context, req *connect.Request[DeletePersonRequest]) (*connect.Response[DeletePersonResponse], error) {
	slog.Info("DeletePerson request received", "person_id", req.Msg.PersonID)

	if err := s.store.DeletePerson(ctx, req.Msg.PersonID); err != nil {
		return nil, fail("DeletePerson", err, "person_id", req.Msg.PersonID)
	}

	slog.Info("Person deleted", "person_id", req.Msg.PersonID)

	return connect.NewResponse(&DeletePersonResponse{}), nil
}

// nonNil turns a nil list into an empty one so it encodes as [].
func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
