// Package model holds the domain entities persisted by the service and
// the request payloads the HTTP layer binds into.
package model

// Todo is a titled task with a completion flag.
//
// ID is assigned by the store on insert and never changes afterwards.
// Completed is false for every newly created todo.
type Todo struct {
	ID        int64  `json:"id" db:"id" gorm:"primaryKey"`
	Title     string `json:"title" db:"title" gorm:"not null;index"`
	Completed bool   `json:"completed" db:"completed" gorm:"not null"`
}

// TableName pins the gorm table to the one created by the migrations.
func (Todo) TableName() string {
	return "todos"
}
