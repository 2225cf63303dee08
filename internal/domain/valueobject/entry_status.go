package valueobject

import "fmt"

// EntryStatus is a mark a user can put on or take off an entry.
type EntryStatus string

const (
	StatusRead    EntryStatus = "read"
	StatusUnread  EntryStatus = "unread"
	StatusSaved   EntryStatus = "saved"
	StatusUnsaved EntryStatus = "unsaved"
)

func ParseEntryStatus(s string) (EntryStatus, error) {
	status := EntryStatus(s)
	if err := status.Validate(); err != nil {
		return "", err
	}
	return status, nil
}

func (s EntryStatus) Validate() error {
	switch s {
	case StatusRead, StatusUnread, StatusSaved, StatusUnsaved:
		return nil
	default:
		return fmt.Errorf("invalid entry status %q, want read|unread|saved|unsaved", string(s))
	}
}

func (s EntryStatus) String() string {
	return string(s)
}
