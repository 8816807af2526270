package user

import "github.com/ftoscano/user-directory/internal/apperr"

// OrderKey selects the sort applied by the query engine.
type OrderKey string

const (
	OrderByFirstName     OrderKey = "BY_FIRSTNAME"
	OrderByFirstNameDesc OrderKey = "BY_FIRSTNAME_DESC"
	OrderByLastName      OrderKey = "BY_LASTNAME"
	OrderByLastNameDesc  OrderKey = "BY_LASTNAME_DESC"
)

// ParseOrderKey maps the raw query parameter to an OrderKey. Empty input is
// allowed and means "use the default order".
func ParseOrderKey(raw string) (OrderKey, error) {
	switch OrderKey(raw) {
	case "", OrderByFirstName, OrderByFirstNameDesc, OrderByLastName, OrderByLastNameDesc:
		return OrderKey(raw), nil
	default:
		return "", apperr.New(400, "Order is not valid")
	}
}

// Criteria is the filter/sort/pagination input to the query engine.
// Immutable per call; the engine works on an effective copy of Limit.
type Criteria struct {
	Query  string
	Order  OrderKey
	Offset int
	Limit  int
}

// AddCriteria carries the field values for creating or updating a user.
type AddCriteria struct {
	FirstName   string
	LastName    string
	Email       string
	PhoneNumber string
}

// Page is one page of query results. Total reflects the number of items
// actually returned, not the size of the full filtered set.
type Page struct {
	Items []View
	Total int
}
