package user

// User is a directory record. The GUID is assigned at creation and never
// changes; records are updated in place and never deleted.
type User struct {
	GUID        string `json:"guid"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phoneNumber"`
}

// View is the outward representation of a User returned by the list
// endpoint. The two shapes are identical today but kept separate so the
// stored record can grow fields that must not be exposed.
type View struct {
	GUID        string `json:"guid"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phoneNumber"`
}

func toView(u User) View {
	return View{
		GUID:        u.GUID,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		Email:       u.Email,
		PhoneNumber: u.PhoneNumber,
	}
}
