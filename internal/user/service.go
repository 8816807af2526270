package user

import (
	"context"
	"regexp"
	"sort"
	"strings"

	"github.com/ftoscano/user-directory/internal/apperr"
	"github.com/ftoscano/user-directory/internal/logging"
)

const maxLimit = 100

var (
	emailPattern = regexp.MustCompile(`^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`)
	// Italian numbers only: +39 followed by 8 to 11 digits.
	phonePattern = regexp.MustCompile(`^\+39\d{8,11}$`)
)

// Service implements the user business operations over a Store.
type Service struct {
	store Store
	log   logging.Logger
}

func NewService(store Store, log logging.Logger) *Service {
	return &Service{store: store, log: log}
}

// Add validates criteria and inserts a new user.
func (s *Service) Add(criteria AddCriteria) error {
	if err := validateFields(criteria); err != nil {
		return err
	}

	if _, err := s.store.Insert(User{
		FirstName:   criteria.FirstName,
		LastName:    criteria.LastName,
		Email:       criteria.Email,
		PhoneNumber: criteria.PhoneNumber,
	}); err != nil {
		s.log.Error(context.Background(), "user insert failed", "err", err)
		return apperr.Generic()
	}

	return nil
}

// Update applies criteria to the user identified by guid.
func (s *Service) Update(guid string, criteria AddCriteria) error {
	if strings.TrimSpace(guid) == "" {
		return apperr.New(400, "Guid is required")
	}

	if _, err := s.store.GetByGUID(guid); err != nil {
		return apperr.New(400, "User not found")
	}

	if _, err := s.store.Update(guid, User{
		FirstName:   criteria.FirstName,
		LastName:    criteria.LastName,
		Email:       criteria.Email,
		PhoneNumber: criteria.PhoneNumber,
	}); err != nil {
		s.log.Error(context.Background(), "user update failed", "guid", guid, "err", err)
		return apperr.Generic()
	}

	return nil
}

// Find runs the filter → sort → paginate pipeline over a fresh snapshot of
// the store. The pipeline is deterministic: identical criteria against an
// unchanged store produce identical ordered output.
func (s *Service) Find(criteria *Criteria) (Page, error) {
	if criteria == nil {
		return Page{}, apperr.New(400, "Criteria is required")
	}
	if criteria.Offset < 0 {
		return Page{}, apperr.New(400, "Offset < 0")
	}

	effectiveLimit := criteria.Limit
	if effectiveLimit <= 0 {
		effectiveLimit = 1
	}

	query := strings.ToUpper(strings.TrimSpace(criteria.Query))

	users := s.store.All()
	filtered := make([]User, 0, len(users))
	for _, u := range users {
		if strings.Contains(strings.ToUpper(u.Email), query) ||
			strings.Contains(strings.ToUpper(u.FirstName), query) ||
			strings.Contains(strings.ToUpper(u.LastName), query) {
			filtered = append(filtered, u)
		}
	}

	sortUsers(filtered, criteria.Order)

	size := len(filtered)
	safeLimit := effectiveLimit
	if safeLimit > maxLimit {
		safeLimit = maxLimit
	}

	var window []User
	if criteria.Offset < size {
		end := criteria.Offset + safeLimit
		if end > size {
			end = size
		}
		window = filtered[criteria.Offset:end]
	}

	items := make([]View, 0, len(window))
	for _, u := range window {
		items = append(items, toView(u))
	}

	// Total is the page size, not the filtered-set size. Known quirk of the
	// current contract; do not change without coordinating with consumers.
	return Page{Items: items, Total: len(items)}, nil
}

// sortUsers orders users by the requested key. The sort is stable so ties
// keep store insertion order. Comparisons are case-insensitive on an
// ordinal fold, independent of host locale.
func sortUsers(users []User, order OrderKey) {
	if order == "" {
		order = OrderByLastNameDesc
	}

	switch order {
	case OrderByFirstName:
		sort.SliceStable(users, func(i, j int) bool {
			return strings.ToUpper(users[i].FirstName) < strings.ToUpper(users[j].FirstName)
		})
	case OrderByFirstNameDesc:
		sort.SliceStable(users, func(i, j int) bool {
			return strings.ToUpper(users[i].FirstName) > strings.ToUpper(users[j].FirstName)
		})
	case OrderByLastName:
		sort.SliceStable(users, func(i, j int) bool {
			return strings.ToUpper(users[i].LastName) < strings.ToUpper(users[j].LastName)
		})
	default:
		sort.SliceStable(users, func(i, j int) bool {
			return strings.ToUpper(users[i].LastName) > strings.ToUpper(users[j].LastName)
		})
	}
}

func validateFields(criteria AddCriteria) error {
	if strings.TrimSpace(criteria.FirstName) == "" {
		return apperr.New(400, "First name is required")
	}
	if strings.TrimSpace(criteria.LastName) == "" {
		return apperr.New(400, "Last name is required")
	}
	if strings.TrimSpace(criteria.Email) == "" {
		return apperr.New(400, "Email is required")
	}
	if strings.TrimSpace(criteria.PhoneNumber) == "" {
		return apperr.New(400, "Phone is required")
	}
	if !emailPattern.MatchString(criteria.Email) {
		return apperr.New(400, "Email is not valid")
	}
	if !phonePattern.MatchString(criteria.PhoneNumber) {
		return apperr.New(400, "Phone is not valid")
	}
	return nil
}
