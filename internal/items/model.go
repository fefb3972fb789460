package items

import "gopkg.in/guregu/null.v3"

// Item representa un registro persistido en DB.
// Los campos no-id son anulables: con la política overwrite un update
// que omite un campo lo deja en NULL, y eso se devuelve como null en JSON.
type Item struct {
	ID          int64       `json:"id"`
	Name        null.String `json:"name"`
	Description null.String `json:"description"`
	Price       null.Int    `json:"price"`
}

// CreateItemInput representa el payload para crear un item.
// Son punteros para distinguir "no vino" de "vino vacío": "" y 0 son valores válidos.
type CreateItemInput struct {
	Name        *string `json:"name" validate:"required,max=50"`
	Description *string `json:"description" validate:"required,max=100"`
	Price       *int64  `json:"price" validate:"required,min=-2147483648,max=2147483647"`
}

// UpdateItemPayload es el body de PUT tal como llega. Punteros como en create:
// el decoder estándar rechaza tipos incorrectos ("5" en price, objetos en name).
type UpdateItemPayload struct {
	Name        *string `json:"name" validate:"omitempty,max=50"`
	Description *string `json:"description" validate:"omitempty,max=100"`
	Price       *int64  `json:"price" validate:"omitempty,min=-2147483648,max=2147483647"`
}

// Input convierte el payload a la forma que usa el repositorio.
func (payload UpdateItemPayload) Input() UpdateItemInput {
	return UpdateItemInput{
		Name:        null.StringFromPtr(payload.Name),
		Description: null.StringFromPtr(payload.Description),
		Price:       null.IntFromPtr(payload.Price),
	}
}

// UpdateItemInput son los valores de un update. Todos opcionales;
// qué pasa con los omitidos lo decide la UpdatePolicy del repositorio.
type UpdateItemInput struct {
	Name        null.String
	Description null.String
	Price       null.Int
}

// NewItem arma un Item con todos los campos presentes. Útil en tests y en el insert.
func NewItem(id int64, name, description string, price int64) Item {
	return Item{
		ID:          id,
		Name:        null.StringFrom(name),
		Description: null.StringFrom(description),
		Price:       null.IntFrom(price),
	}
}
