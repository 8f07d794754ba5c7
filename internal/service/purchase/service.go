package purchase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"

	"game-market/internal/domain"
	"game-market/internal/invite"
	"game-market/internal/metrics"
	"game-market/internal/purchaseform"
	"game-market/internal/recipient"
	gamerepo "game-market/internal/repository/game"
	purchaserepo "game-market/internal/repository/purchase"
	"game-market/internal/session"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

var (
	ErrNothingToPurchase        = errors.New("select at least one recipient or invite email")
	ErrInviteNotAcknowledged    = errors.New("invite emails require acknowledgeInvite")
	ErrInviteAgeNotAcknowledged = errors.New("age restricted game requires acknowledgeInviteAge")
	ErrUnsupportedAction        = errors.New("unsupported action")
	ErrUnknownRecipient         = purchaseform.ErrUnknownRecipient
	ErrFieldNotEditable         = purchaseform.ErrFieldNotEditable
)

// Action names accepted by Apply.
const (
	ActionToggleRecipient      = "toggleRecipient"
	ActionToggleInvite         = "toggleInvite"
	ActionSetEmails            = "setEmails"
	ActionAcknowledgeInvite    = "acknowledgeInvite"
	ActionAcknowledgeInviteAge = "acknowledgeInviteAge"
)

// UserReader is the part of the user store the purchase flow needs.
type UserReader interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
	ListFriends(ctx context.Context, userID string) ([]domain.UserShortInfo, error)
}

// Action is one form interaction. Which fields matter depends on Action:
// UserID/Checked for toggleRecipient, Checked for toggleInvite, Raw for
// setEmails and Value for the acknowledgements.
type Action struct {
	Action  string `json:"action"`
	UserID  string `json:"userId,omitempty"`
	Checked bool   `json:"checked,omitempty"`
	Raw     string `json:"raw,omitempty"`
	Value   bool   `json:"value,omitempty"`
}

// View is everything the purchase form renders.
type View struct {
	Purchase     domain.Purchase      `json:"purchase"`
	Session      purchaseform.Session `json:"session"`
	Recipients   []recipient.Option   `json:"recipients"`
	InviteFields []invite.Field       `json:"inviteFields"`
}

type Service struct {
	purchases purchaserepo.Repository
	games     gamerepo.Repository
	users     UserReader
	sessions  session.Store
	metrics   *metrics.Metrics
	logger    *log.Logger
}

func New(purchases purchaserepo.Repository, games gamerepo.Repository, users UserReader, sessions session.Store, m *metrics.Metrics, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Service{
		purchases: purchases,
		games:     games,
		users:     users,
		sessions:  sessions,
		metrics:   m,
		logger:    logger,
	}
}

// Create starts a new draft for buyerID. Recipients start empty.
func (s *Service) Create(ctx context.Context, buyerID, gameKey string) (*View, error) {
	gameKey = strings.TrimSpace(gameKey)
	if gameKey == "" {
		return nil, domain.Invalidf("gameKey required")
	}
	game, err := s.games.GetByKey(ctx, gameKey)
	if err != nil {
		return nil, fmt.Errorf("load game %q: %w", gameKey, err)
	}
	p, err := s.purchases.Create(ctx, purchaserepo.CreatePurchaseInput{BuyerID: buyerID, GameID: game.ID})
	if err != nil {
		return nil, fmt.Errorf("create purchase: %w", err)
	}
	s.logger.Printf("purchase created id=%s buyer=%s game=%s", p.ID, buyerID, game.Key)
	return s.View(ctx, buyerID, p.ID)
}

// List returns the buyer's purchases, newest first.
func (s *Service) List(ctx context.Context, buyerID string) ([]domain.Purchase, error) {
	return s.purchases.ListByBuyer(ctx, buyerID)
}

// View renders the current form of a purchase owned by buyerID.
func (s *Service) View(ctx context.Context, buyerID, purchaseID string) (*View, error) {
	f, err := s.open(ctx, buyerID, purchaseID)
	if err != nil {
		return nil, err
	}
	return render(f.ctrl), nil
}

// Apply runs actions in order against the draft. Either all of them are
// applied and persisted, or the first failing one aborts the batch and
// nothing is stored. Rejected recipient selections are not failures: they
// only replace the session alert.
func (s *Service) Apply(ctx context.Context, buyerID, purchaseID string, actions []Action) (*View, error) {
	f, err := s.open(ctx, buyerID, purchaseID)
	if err != nil {
		return nil, err
	}
	if !f.ctrl.Draft().IsDraft() {
		return nil, domain.ErrNotDraft
	}

	for i, a := range actions {
		if err := s.apply(f.ctrl, a); err != nil {
			return nil, fmt.Errorf("action %d (%s): %w", i, a.Action, err)
		}
	}

	if f.changed {
		if _, err := s.purchases.Update(ctx, f.ctrl.Draft()); err != nil {
			return nil, fmt.Errorf("save draft: %w", err)
		}
	}
	if err := s.sessions.Save(ctx, purchaseID, f.ctrl.Session()); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}
	return render(f.ctrl), nil
}

func (s *Service) apply(ctrl *purchaseform.Controller, a Action) error {
	switch a.Action {
	case ActionToggleRecipient:
		_, verdict, err := ctrl.ToggleRecipient(a.UserID, a.Checked)
		if err != nil {
			return err
		}
		if !verdict.Eligible {
			s.metrics.ObserveRejected(string(verdict.Reason))
			return nil
		}
		s.metrics.ObserveToggled(a.Checked)
	case ActionToggleInvite:
		ctrl.ToggleInvite(a.Checked)
	case ActionSetEmails:
		p, err := ctrl.CommitEmails(a.Raw)
		if err != nil {
			return err
		}
		s.metrics.ObserveInviteEmails(len(p.Emails))
	case ActionAcknowledgeInvite:
		if _, err := ctrl.SetAcknowledgeInvite(a.Value); err != nil {
			return err
		}
	case ActionAcknowledgeInviteAge:
		if _, err := ctrl.SetAcknowledgeInviteAge(a.Value); err != nil {
			return err
		}
	default:
		return ErrUnsupportedAction
	}
	return nil
}

// Submit hands a draft off to checkout after checking that it names someone
// to receive the game and that invite acknowledgements were given.
func (s *Service) Submit(ctx context.Context, buyerID, purchaseID string) (*domain.Purchase, error) {
	p, err := s.owned(ctx, buyerID, purchaseID)
	if err != nil {
		return nil, err
	}
	if !p.IsDraft() {
		return nil, domain.ErrNotDraft
	}
	if err := CheckSubmittable(*p); err != nil {
		return nil, err
	}

	next := p.Clone()
	next.State = domain.PurchaseStateSubmitted
	saved, err := s.purchases.Update(ctx, next)
	if err != nil {
		return nil, fmt.Errorf("submit purchase: %w", err)
	}
	if err := s.sessions.Delete(ctx, purchaseID); err != nil {
		s.logger.Printf("purchase submit: drop session id=%s err=%v", purchaseID, err)
	}
	s.metrics.ObserveSubmitted()
	s.logger.Printf("purchase submitted id=%s users=%d emails=%d", saved.ID, len(saved.UserIDs), len(saved.Emails))
	return saved, nil
}

// CheckSubmittable reports why p cannot be submitted, or nil.
func CheckSubmittable(p domain.Purchase) error {
	if len(p.UserIDs) == 0 && len(p.Emails) == 0 {
		return ErrNothingToPurchase
	}
	if len(p.Emails) > 0 {
		if !p.AcknowledgeInvite {
			return ErrInviteNotAcknowledged
		}
		if !p.InviteAgeAcknowledged() {
			return ErrInviteAgeNotAcknowledged
		}
	}
	return nil
}

type form struct {
	ctrl    *purchaseform.Controller
	changed bool
}

// open loads the draft, the buyer, the buyer's friends and the form session
// concurrently and assembles a controller over them.
func (s *Service) open(ctx context.Context, buyerID, purchaseID string) (*form, error) {
	var (
		p       *domain.Purchase
		buyer   *domain.User
		friends []domain.UserShortInfo
		sess    purchaseform.Session
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		p, err = s.owned(gctx, buyerID, purchaseID)
		return err
	})
	g.Go(func() error {
		var err error
		buyer, err = s.users.GetByID(gctx, buyerID)
		if err != nil {
			return fmt.Errorf("load buyer: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		friends, err = s.users.ListFriends(gctx, buyerID)
		if err != nil {
			return fmt.Errorf("load friends: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		sess, err = s.sessions.Get(gctx, purchaseID)
		if err != nil {
			return fmt.Errorf("load session: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	f := &form{}
	me := buyer.ShortInfo()
	f.ctrl = purchaseform.New(*p, sess, purchaseform.Deps{
		Me:       &me,
		Friends:  s.users,
		Logger:   s.logger,
		OnChange: func(domain.Purchase) { f.changed = true },
	})
	f.ctrl.SetFriends(friends)
	return f, nil
}

// owned returns the purchase when it belongs to buyerID. Purchases of other
// buyers and malformed ids are reported as missing.
func (s *Service) owned(ctx context.Context, buyerID, purchaseID string) (*domain.Purchase, error) {
	if uuid.Validate(purchaseID) != nil {
		return nil, fmt.Errorf("load purchase: %w", domain.ErrNotFound)
	}
	p, err := s.purchases.GetByID(ctx, purchaseID)
	if err != nil {
		return nil, fmt.Errorf("load purchase: %w", err)
	}
	if p.BuyerID != buyerID {
		return nil, fmt.Errorf("load purchase: %w", domain.ErrNotFound)
	}
	return p, nil
}

func render(ctrl *purchaseform.Controller) *View {
	recipients, _ := ctrl.Recipients()
	if recipients == nil {
		recipients = []recipient.Option{}
	}
	fields := ctrl.InviteFields()
	if fields == nil {
		fields = []invite.Field{}
	}
	return &View{
		Purchase:     ctrl.Draft(),
		Session:      ctrl.Session(),
		Recipients:   recipients,
		InviteFields: fields,
	}
}
