package purchaseform

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"game-market/internal/domain"
	"game-market/internal/invite"
	"game-market/internal/recipient"
)

func restrictedDraft(minAge int) domain.Purchase {
	return domain.Purchase{
		ID:    "p1",
		Game:  domain.Game{ID: "g1", Name: "Doom", Restrictions: domain.Restrictions{MinAge: domain.IntPtr(minAge)}},
		State: domain.PurchaseStateDraft,
	}
}

func TestToggle_UnderageIsRejectedWithAlert(t *testing.T) {
	c := New(restrictedDraft(18), Session{}, Deps{})

	p, v := c.Toggle(domain.UserShortInfo{ID: "kid", Name: "Kid", Age: domain.IntPtr(16)}, true)

	assert.False(t, v.Eligible)
	assert.Equal(t, recipient.ReasonUnderage, v.Reason)
	assert.Empty(t, p.UserIDs)
	assert.Equal(t, "The person is not allowed to get the game due to age restriction", c.Session().Alert)
}

func TestToggle_UnknownAgeIsRejectedWithAlert(t *testing.T) {
	c := New(restrictedDraft(18), Session{}, Deps{})

	p, v := c.Toggle(domain.UserShortInfo{ID: "anon", Name: "Anon"}, true)

	assert.Equal(t, recipient.ReasonAgeRequired, v.Reason)
	assert.Empty(t, p.UserIDs)
	assert.Equal(t, recipient.ReasonAgeRequired.Message(), c.Session().Alert)
}

func TestToggle_NewRejectionReplacesAlert(t *testing.T) {
	c := New(restrictedDraft(18), Session{}, Deps{})
	c.Toggle(domain.UserShortInfo{ID: "anon"}, true)
	c.Toggle(domain.UserShortInfo{ID: "kid", Age: domain.IntPtr(10)}, true)
	assert.Equal(t, recipient.ReasonUnderage.Message(), c.Session().Alert)
}

func TestToggle_UnrestrictedAddsOnce(t *testing.T) {
	c := New(domain.Purchase{ID: "p1"}, Session{}, Deps{})
	friend := domain.UserShortInfo{ID: "f1", Name: "Fred"}

	c.Toggle(friend, true)
	p, v := c.Toggle(friend, true)

	assert.True(t, v.Eligible)
	assert.Equal(t, []string{"f1"}, p.UserIDs)
}

func TestToggle_OffRemovesEvenIneligible(t *testing.T) {
	draft := restrictedDraft(18)
	draft.UserIDs = []string{"kid", "adult"}
	c := New(draft, Session{}, Deps{})

	p, _ := c.Toggle(domain.UserShortInfo{ID: "kid", Age: domain.IntPtr(5)}, false)

	assert.Equal(t, []string{"adult"}, p.UserIDs)
	assert.Empty(t, c.Session().Alert)
}

func TestToggle_SuccessDoesNotClearAlert(t *testing.T) {
	c := New(restrictedDraft(18), Session{}, Deps{})
	c.Toggle(domain.UserShortInfo{ID: "kid", Age: domain.IntPtr(10)}, true)

	p, v := c.Toggle(domain.UserShortInfo{ID: "adult", Age: domain.IntPtr(30)}, true)
	require.True(t, v.Eligible)
	assert.Equal(t, []string{"adult"}, p.UserIDs)
	assert.Equal(t, recipient.ReasonUnderage.Message(), c.Session().Alert)

	c.Toggle(domain.UserShortInfo{ID: "adult"}, false)
	assert.Equal(t, recipient.ReasonUnderage.Message(), c.Session().Alert)
}

func TestToggle_DoesNotMutateIncomingDraft(t *testing.T) {
	ids := make([]string, 1, 8)
	ids[0] = "a"
	draft := domain.Purchase{ID: "p1", UserIDs: ids}
	c := New(draft, Session{}, Deps{})

	c.Toggle(domain.UserShortInfo{ID: "b"}, true)
	c.Toggle(domain.UserShortInfo{ID: "a"}, false)

	assert.Equal(t, []string{"a"}, draft.UserIDs)
	assert.Equal(t, "a", ids[0])
	assert.Equal(t, []string{"b"}, c.Draft().UserIDs)
}

func TestToggle_EmitsOnlyOnChange(t *testing.T) {
	var emitted []domain.Purchase
	c := New(restrictedDraft(18), Session{}, Deps{OnChange: func(p domain.Purchase) {
		emitted = append(emitted, p)
	}})

	c.Toggle(domain.UserShortInfo{ID: "kid", Age: domain.IntPtr(1)}, true)
	require.Empty(t, emitted)

	c.Toggle(domain.UserShortInfo{ID: "adult", Age: domain.IntPtr(21)}, true)
	require.Len(t, emitted, 1)
	assert.Equal(t, []string{"adult"}, emitted[0].UserIDs)
}

func TestToggleRecipient_ResolvesMeAndFriends(t *testing.T) {
	me := &domain.UserShortInfo{ID: "me", Name: "Me", Age: domain.IntPtr(30)}
	c := New(restrictedDraft(18), Session{}, Deps{Me: me})

	_, _, err := c.ToggleRecipient("f1", true)
	assert.ErrorIs(t, err, ErrFriendsNotLoaded)

	p, v, err := c.ToggleRecipient("me", true)
	require.NoError(t, err)
	assert.True(t, v.Eligible)
	assert.Equal(t, []string{"me"}, p.UserIDs)

	c.SetFriends([]domain.UserShortInfo{{ID: "f1", Name: "Fred", Age: domain.IntPtr(17)}})
	_, v, err = c.ToggleRecipient("f1", true)
	require.NoError(t, err)
	assert.Equal(t, recipient.ReasonUnderage, v.Reason)

	_, _, err = c.ToggleRecipient("stranger", true)
	assert.ErrorIs(t, err, ErrUnknownRecipient)

	p, _, err = c.ToggleRecipient("stranger", false)
	require.NoError(t, err)
	assert.Equal(t, []string{"me"}, p.UserIDs)
}

func TestInvite_FieldsGatedByFlow(t *testing.T) {
	c := New(domain.Purchase{ID: "p1"}, Session{}, Deps{})

	_, err := c.CommitEmails("a@b.com")
	assert.ErrorIs(t, err, ErrFieldNotEditable)

	c.ToggleInvite(true)
	p, err := c.CommitEmails("a@b.com,not-an-email,c@d.org")
	require.NoError(t, err)
	assert.Equal(t, []string{"a@b.com", "c@d.org"}, p.Emails)

	p, err = c.CommitEmails("x@y.com, bad@, z@q.net")
	require.NoError(t, err)
	assert.Equal(t, []string{"x@y.com", "z@q.net"}, p.Emails)

	p, err = c.SetAcknowledgeInvite(true)
	require.NoError(t, err)
	assert.True(t, p.AcknowledgeInvite)

	_, err = c.SetAcknowledgeInviteAge(true)
	assert.ErrorIs(t, err, ErrFieldNotEditable)
	assert.True(t, c.Draft().InviteAgeAcknowledged())
}

func TestInvite_AgeAcknowledgementForRestrictedGame(t *testing.T) {
	c := New(restrictedDraft(18), Session{}, Deps{})
	c.ToggleInvite(true)

	assert.Equal(t, []invite.Field{invite.FieldEmails, invite.FieldAcknowledgeInvite, invite.FieldAcknowledgeInviteAge}, c.InviteFields())
	assert.False(t, c.Draft().InviteAgeAcknowledged())

	p, err := c.SetAcknowledgeInviteAge(true)
	require.NoError(t, err)
	assert.True(t, p.AcknowledgeInviteAge)
	assert.True(t, p.InviteAgeAcknowledged())
}

// Closing the invite flow keeps what was entered; reopening shows it again.
func TestInvite_DeactivateKeepsEnteredData(t *testing.T) {
	c := New(restrictedDraft(18), Session{}, Deps{})
	c.ToggleInvite(true)
	_, err := c.CommitEmails("a@b.com")
	require.NoError(t, err)
	_, err = c.SetAcknowledgeInvite(true)
	require.NoError(t, err)
	_, err = c.SetAcknowledgeInviteAge(true)
	require.NoError(t, err)

	s := c.ToggleInvite(false)
	assert.False(t, s.Invite.Active)
	assert.Nil(t, c.InviteFields())

	p := c.Draft()
	assert.Equal(t, []string{"a@b.com"}, p.Emails)
	assert.True(t, p.AcknowledgeInvite)
	assert.True(t, p.AcknowledgeInviteAge)

	c.ToggleInvite(true)
	assert.Equal(t, []string{"a@b.com"}, c.Draft().Emails)
}

func TestRecipients_LoadingUntilFriendsArrive(t *testing.T) {
	me := &domain.UserShortInfo{ID: "me", Name: "Zoe"}
	c := New(domain.Purchase{ID: "p1", UserIDs: []string{"b"}}, Session{}, Deps{Me: me})

	_, ok := c.Recipients()
	assert.False(t, ok)

	c.SetFriends([]domain.UserShortInfo{{ID: "a", Name: "alice"}, {ID: "b", Name: "Bob"}})
	opts, ok := c.Recipients()
	require.True(t, ok)
	assert.Equal(t, []recipient.Option{
		{UserID: "me", Label: "me", Self: true},
		{UserID: "b", Label: "Bob", Checked: true},
		{UserID: "a", Label: "alice"},
	}, opts)
}
