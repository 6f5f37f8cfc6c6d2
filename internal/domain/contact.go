// internal/domain/contact.go
package domain

// ContactKind distinguishes the two contact record types a user owns.
type ContactKind string

const (
	ContactKindEmail ContactKind = "email"
	ContactKindPhone ContactKind = "phone number"
)

// Contact is an email address or phone number owned by exactly one user.
// Value is globally unique within its kind. UserID is a back-reference used
// for lookup only; lifecycle decisions always flow from the owning user.
type Contact struct {
	ID     int64  `db:"id" json:"id"`
	Value  string `db:"value" json:"value"`
	UserID int64  `db:"user_id" json:"-"`
}

// NewContact creates a contact record attached to the given user.
func NewContact(userID int64, value string) *Contact {
	return &Contact{
		Value:  value,
		UserID: userID,
	}
}
