// Package purchaseform drives the recipient picker of a purchase draft.
//
// A Controller owns two containers: the persisted domain.Purchase draft and
// the transient Session (alert text and invite flag). Every action replaces
// the draft with a new value; the previous value is never modified.
package purchaseform

import (
	"context"
	"errors"
	"io"
	"log"
	"sync"

	"game-market/internal/domain"
	"game-market/internal/invite"
	"game-market/internal/recipient"
)

var (
	// ErrUnknownRecipient is returned when a toggled id is neither the acting
	// user nor one of the loaded friends.
	ErrUnknownRecipient = errors.New("unknown recipient")
	// ErrFriendsNotLoaded is returned when a friend is toggled before the
	// friends list arrived.
	ErrFriendsNotLoaded = errors.New("friends not loaded")
	// ErrFieldNotEditable is returned for invite fields that are hidden in the
	// current state of the invite flow.
	ErrFieldNotEditable = errors.New("field not editable")
)

// FriendsFetcher loads the friends of a user.
type FriendsFetcher interface {
	ListFriends(ctx context.Context, userID string) ([]domain.UserShortInfo, error)
}

// Session is the form state that lives only as long as the form is open.
type Session struct {
	Alert  string      `json:"alert,omitempty"`
	Invite invite.Flow `json:"invite"`
}

// Deps is the ambient context of a form: who is acting and how to reach data.
type Deps struct {
	Me       *domain.UserShortInfo
	Friends  FriendsFetcher
	Logger   *log.Logger
	OnChange func(domain.Purchase)
}

type Controller struct {
	mu            sync.Mutex
	draft         domain.Purchase
	session       Session
	me            *domain.UserShortInfo
	friends       []domain.UserShortInfo
	friendsLoaded bool

	fetcher  FriendsFetcher
	logger   *log.Logger
	onChange func(domain.Purchase)
	inflight sync.WaitGroup
}

// New creates a Controller for draft. Friends are not loaded until
// RefreshFriends, LoadFriends or SetFriends is called.
func New(draft domain.Purchase, session Session, deps Deps) *Controller {
	logger := deps.Logger
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Controller{
		draft:    draft.Clone(),
		session:  session,
		me:       deps.Me,
		fetcher:  deps.Friends,
		logger:   logger,
		onChange: deps.OnChange,
	}
}

// Draft returns a copy of the current draft.
func (c *Controller) Draft() domain.Purchase {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.draft.Clone()
}

// Session returns the current transient state.
func (c *Controller) Session() Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session
}

// Toggle selects or deselects candidate. Selecting runs the eligibility rules
// and, on rejection, replaces the alert and leaves the draft as it was.
// Deselecting always removes the candidate.
func (c *Controller) Toggle(candidate domain.UserShortInfo, checked bool) (domain.Purchase, recipient.Verdict) {
	c.mu.Lock()
	if !checked {
		next := c.draft.Clone()
		next.UserIDs = recipient.Remove(c.draft.UserIDs, candidate.ID)
		c.draft = next
		c.mu.Unlock()
		c.emit(next)
		return next.Clone(), recipient.Verdict{Eligible: true}
	}

	verdict := recipient.Evaluate(candidate, c.draft.Game.Restrictions)
	if !verdict.Eligible {
		c.session.Alert = verdict.Reason.Message()
		current := c.draft.Clone()
		c.mu.Unlock()
		return current, verdict
	}

	next := c.draft.Clone()
	next.UserIDs = recipient.Add(c.draft.UserIDs, candidate.ID)
	c.draft = next
	c.mu.Unlock()
	c.emit(next)
	return next.Clone(), verdict
}

// ToggleRecipient is Toggle for a user id taken from the picker. Adding
// requires the id to be the acting user or a loaded friend; removing accepts
// any id.
func (c *Controller) ToggleRecipient(userID string, checked bool) (domain.Purchase, recipient.Verdict, error) {
	if !checked {
		p, v := c.Toggle(domain.UserShortInfo{ID: userID}, false)
		return p, v, nil
	}
	candidate, err := c.lookup(userID)
	if err != nil {
		return c.Draft(), recipient.Verdict{}, err
	}
	p, v := c.Toggle(candidate, true)
	return p, v, nil
}

func (c *Controller) lookup(userID string) (domain.UserShortInfo, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.me != nil && c.me.ID == userID {
		return *c.me, nil
	}
	if !c.friendsLoaded {
		return domain.UserShortInfo{}, ErrFriendsNotLoaded
	}
	for _, f := range c.friends {
		if f.ID == userID {
			return f, nil
		}
	}
	return domain.UserShortInfo{}, ErrUnknownRecipient
}

// ToggleInvite opens or closes the invite sub-flow. Entered emails and
// acknowledgements stay in the draft when it is closed.
func (c *Controller) ToggleInvite(active bool) Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.session.Invite = c.session.Invite.Toggle(active)
	return c.session
}

// CommitEmails replaces the draft emails with the valid addresses in raw.
func (c *Controller) CommitEmails(raw string) (domain.Purchase, error) {
	return c.update(invite.FieldEmails.Name, func(p *domain.Purchase) {
		p.Emails = invite.ExtractEmails(raw)
	})
}

func (c *Controller) SetAcknowledgeInvite(v bool) (domain.Purchase, error) {
	return c.update(invite.FieldAcknowledgeInvite.Name, func(p *domain.Purchase) {
		p.AcknowledgeInvite = v
	})
}

func (c *Controller) SetAcknowledgeInviteAge(v bool) (domain.Purchase, error) {
	return c.update(invite.FieldAcknowledgeInviteAge.Name, func(p *domain.Purchase) {
		p.AcknowledgeInviteAge = v
	})
}

func (c *Controller) update(field string, mutate func(p *domain.Purchase)) (domain.Purchase, error) {
	c.mu.Lock()
	if !c.session.Invite.Editable(field, c.draft.Game.Restrictions) {
		current := c.draft.Clone()
		c.mu.Unlock()
		return current, ErrFieldNotEditable
	}
	next := c.draft.Clone()
	mutate(&next)
	c.draft = next
	c.mu.Unlock()
	c.emit(next)
	return next.Clone(), nil
}

// InviteFields lists the invite inputs editable right now.
func (c *Controller) InviteFields() []invite.Field {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session.Invite.Fields(c.draft.Game.Restrictions)
}

// Recipients returns the picker rows, or false while friends are loading.
func (c *Controller) Recipients() ([]recipient.Option, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.friendsLoaded {
		return nil, false
	}
	return recipient.Options(c.me, c.friends, c.draft.UserIDs), true
}

func (c *Controller) emit(p domain.Purchase) {
	if c.onChange != nil {
		c.onChange(p.Clone())
	}
}
