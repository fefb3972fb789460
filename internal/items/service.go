package items

import (
	"context"
	"errors"
)

// Errores de dominio (no HTTP). El handler los traduce a status codes.
var (
	ErrorInvalidInput = errors.New("invalid input")
	ErrorNotFound     = errors.New("item not found")
)

// RepositoryAPI define lo que el service necesita del storage.
// GetByID y Update devuelven found=false como marcador de ausencia, no como error.
type RepositoryAPI interface {
	Insert(ctx context.Context, input CreateItemInput) (Item, error)
	List(ctx context.Context) ([]Item, error)
	GetByID(ctx context.Context, id int64) (Item, bool, error)
	Update(ctx context.Context, id int64, input UpdateItemInput) (Item, bool, error)
	Delete(ctx context.Context, id int64) error
}

// Service contiene las reglas de items: por ahora, traducir ausencia a ErrorNotFound.
type Service struct {
	repository RepositoryAPI
}

// NewService crea un service de items.
func NewService(repository RepositoryAPI) *Service {
	return &Service{repository: repository}
}

// Create persiste el item. El payload ya viene validado por el handler.
func (service *Service) Create(ctx context.Context, input CreateItemInput) (Item, error) {
	if input.Name == nil || input.Description == nil || input.Price == nil {
		return Item{}, ErrorInvalidInput
	}
	return service.repository.Insert(ctx, input)
}

// List devuelve todos los items.
func (service *Service) List(ctx context.Context) ([]Item, error) {
	return service.repository.List(ctx)
}

// Get obtiene un item por ID.
func (service *Service) Get(ctx context.Context, id int64) (Item, error) {
	item, found, err := service.repository.GetByID(ctx, id)
	if err != nil {
		return Item{}, err
	}
	if !found {
		return Item{}, ErrorNotFound
	}
	return item, nil
}

// Update aplica el payload y devuelve la fila releída.
// ErrorNotFound si después de escribir el id no existe.
func (service *Service) Update(ctx context.Context, id int64, input UpdateItemInput) (Item, error) {
	item, found, err := service.repository.Update(ctx, id, input)
	if err != nil {
		return Item{}, err
	}
	if !found {
		return Item{}, ErrorNotFound
	}
	return item, nil
}

// Delete elimina un item por ID. No chequea existencia; eso lo hace el handler antes.
func (service *Service) Delete(ctx context.Context, id int64) error {
	return service.repository.Delete(ctx, id)
}
