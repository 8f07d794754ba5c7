package purchaseform

import (
	"context"
	"errors"

	"game-market/internal/domain"
)

var errNoFetcher = errors.New("friends fetcher not configured")

// Me returns the acting user, if any.
func (c *Controller) Me() *domain.UserShortInfo {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.me
}

// SetActingUser switches the acting user. When the identity changes the
// friends list is dropped and a fetch for the new user is started.
func (c *Controller) SetActingUser(ctx context.Context, me *domain.UserShortInfo) {
	c.mu.Lock()
	changed := !sameIdentity(c.me, me)
	c.me = me
	if changed {
		c.friends = nil
		c.friendsLoaded = false
	}
	c.mu.Unlock()

	if changed && me != nil {
		c.RefreshFriends(ctx)
	}
}

func sameIdentity(a, b *domain.UserShortInfo) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.ID == b.ID
}

// RefreshFriends fetches the acting user's friends in the background.
// Overlapping fetches are not cancelled: whichever response resolves last is
// kept, as long as it belongs to the current acting user. Failures are logged
// and leave the current list in place.
func (c *Controller) RefreshFriends(ctx context.Context) {
	me := c.Me()
	if me == nil || c.fetcher == nil {
		return
	}
	c.inflight.Add(1)
	go func(userID string) {
		defer c.inflight.Done()
		if err := c.fetchFriends(ctx, userID); err != nil {
			c.logger.Printf("purchase form: fetch friends user=%s err=%v", userID, err)
		}
	}(me.ID)
}

// LoadFriends fetches the friends of the acting user and waits for them.
func (c *Controller) LoadFriends(ctx context.Context) error {
	me := c.Me()
	if me == nil {
		c.SetFriends(nil)
		return nil
	}
	if c.fetcher == nil {
		return errNoFetcher
	}
	return c.fetchFriends(ctx, me.ID)
}

func (c *Controller) fetchFriends(ctx context.Context, userID string) error {
	friends, err := c.fetcher.ListFriends(ctx, userID)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.me == nil || c.me.ID != userID {
		return nil
	}
	c.friends = append([]domain.UserShortInfo(nil), friends...)
	c.friendsLoaded = true
	return nil
}

// SetFriends installs an already fetched friends list.
func (c *Controller) SetFriends(friends []domain.UserShortInfo) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.friends = append([]domain.UserShortInfo(nil), friends...)
	c.friendsLoaded = true
}

// Wait blocks until background friend fetches have resolved.
func (c *Controller) Wait() {
	c.inflight.Wait()
}
