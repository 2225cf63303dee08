package dto

// SetupDTO reports what a setup run changed.
type SetupDTO struct {
	Migrations       []string
	Bootstrapped     bool
	DefaultUserAdded bool
}
