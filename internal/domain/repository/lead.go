package repository

// Lead es un contacto normalizado a partir de una fila del archivo subido.
// FirstName y Phone nunca están vacíos; Notes es "" si no vino.
type Lead struct {
	FirstName string `json:"firstName"`
	Phone     string `json:"phone"`
	Notes     string `json:"notes"`
}
