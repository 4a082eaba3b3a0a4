package model

import (
	"go.mongodb.org/mongo-driver/bson"
)

// Document is a stored document: its key and its BSON encoded fields
type Document struct {
	ID   string
	Data bson.Raw
}

// DataTo decodes the document fields into v
func (d Document) DataTo(v any) error {
	return bson.Unmarshal(d.Data, v)
}
