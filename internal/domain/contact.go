package domain

// Contact is owned by the contact registry; the campaign engine only ever
// reads it as part of a region-scoped enumeration.
type Contact struct {
	ID          int64  `db:"id" json:"id"`
	Name        string `db:"name" json:"name"`
	PhoneNumber string `db:"phone_number" json:"phoneNumber"`
	Tag         string `db:"tag" json:"tag,omitempty"`
	Region      string `db:"region" json:"region"`
}
