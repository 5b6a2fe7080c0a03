package models

import (
	"errors"
	"fmt"
)

// Entity names a catalog entity kind in errors and logs.
type Entity string

const (
	EntityClient        Entity = "Client"
	EntityShop          Entity = "Shop"
	EntityCategory      Entity = "Category"
	EntityModifier      Entity = "Modifier"
	EntityModifierGroup Entity = "ModifierGroup"
	EntityMeal          Entity = "Meal"
	EntityMealOffer     Entity = "MealOffer"
	EntityDiscount      Entity = "Discount"
	EntityOrder         Entity = "Order"
)

// NotFoundError reports a referenced catalog entity that the mirror cannot
// resolve. It aborts the current unit of work.
type NotFoundError struct {
	Entity Entity
	ID     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not exists: %s", e.Entity, e.ID)
}

func NewNotFound(entity Entity, id string) error {
	return &NotFoundError{Entity: entity, ID: id}
}

// IsNotFound reports whether err is a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}
