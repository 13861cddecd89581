package repository

import "errors"

// ErrPersistence indica que el store no pudo reemplazar el lote de
// distribuciones. El lote anterior queda intacto en adapters transaccionales.
var ErrPersistence = errors.New("persistence error")
