package invite

import "game-market/internal/domain"

// Field is an input of the invite sub-flow.
type Field struct {
	Name  string `json:"name"`
	Label string `json:"label"`
}

var (
	FieldEmails = Field{
		Name:  "emails",
		Label: "Enter Email",
	}
	FieldAcknowledgeInvite = Field{
		Name:  "acknowledgeInvite",
		Label: "I acknowledge that Game Market invitation emails will be sent to specified emails. The game will become available to the person only once the registration in the Game Market is completed.",
	}
	FieldAcknowledgeInviteAge = Field{
		Name:  "acknowledgeInviteAge",
		Label: "I acknowledge that the game has age restriction and might be unavailable if a person is under required age",
	}
)

// Flow tracks whether the buyer opened the invite sub-flow. It only controls
// which fields are editable; closing it leaves the draft untouched.
type Flow struct {
	Active bool `json:"active"`
}

func (f Flow) Toggle(active bool) Flow {
	return Flow{Active: active}
}

// Fields lists the editable invite fields. The age acknowledgement is only
// offered for age restricted games. Nothing is editable while inactive.
func (f Flow) Fields(r domain.Restrictions) []Field {
	if !f.Active {
		return nil
	}
	fields := []Field{FieldEmails, FieldAcknowledgeInvite}
	if r.HasMinAge() {
		fields = append(fields, FieldAcknowledgeInviteAge)
	}
	return fields
}

// Editable reports whether the named field can be changed right now.
func (f Flow) Editable(name string, r domain.Restrictions) bool {
	for _, field := range f.Fields(r) {
		if field.Name == name {
			return true
		}
	}
	return false
}
