package models

// Contact is a read-only directory entry.
type Contact struct {
	Category string `bson:"category" json:"category"`
	Name     string `bson:"name" json:"name"`
	Phone    string `bson:"phone" json:"phone"`
}
