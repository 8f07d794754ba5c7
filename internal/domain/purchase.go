package domain

import "time"

const (
	PurchaseStateDraft     = "draft"
	PurchaseStateSubmitted = "submitted"
)

// Purchase is the persisted work-in-progress purchase request.
// UserIDs and Emails never contain duplicates.
type Purchase struct {
	ID                   string    `json:"id"`
	BuyerID              string    `json:"buyerId"`
	Game                 Game      `json:"game"`
	UserIDs              []string  `json:"userIds"`
	Emails               []string  `json:"emails"`
	AcknowledgeInvite    bool      `json:"acknowledgeInvite"`
	AcknowledgeInviteAge bool      `json:"acknowledgeInviteAge"`
	State                string    `json:"state"`
	CreatedAt            time.Time `json:"createdAt"`
	UpdatedAt            time.Time `json:"updatedAt"`
}

// Clone returns a copy that shares no slices with p.
func (p Purchase) Clone() Purchase {
	out := p
	out.UserIDs = append([]string(nil), p.UserIDs...)
	out.Emails = append([]string(nil), p.Emails...)
	if p.Game.Restrictions.MinAge != nil {
		out.Game.Restrictions.MinAge = IntPtr(*p.Game.Restrictions.MinAge)
	}
	return out
}

// InviteAgeAcknowledged treats the age acknowledgement as satisfied when the
// game has no age restriction.
func (p Purchase) InviteAgeAcknowledged() bool {
	if !p.Game.Restrictions.HasMinAge() {
		return true
	}
	return p.AcknowledgeInviteAge
}

// HasRecipient reports whether id is among the confirmed recipients.
func (p Purchase) HasRecipient(id string) bool {
	for _, existing := range p.UserIDs {
		if existing == id {
			return true
		}
	}
	return false
}

func (p Purchase) IsDraft() bool {
	return p.State == "" || p.State == PurchaseStateDraft
}
