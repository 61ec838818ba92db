package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/stripe/stripe-go/v74"
	"go.uber.org/zap"

	"github.com/puedeser233-alt/SiteSnapAI/internal/config"
	"github.com/puedeser233-alt/SiteSnapAI/internal/models"
	"github.com/puedeser233-alt/SiteSnapAI/internal/repository"
	"github.com/puedeser233-alt/SiteSnapAI/pkg/payment"
)

type PaymentService struct {
	stripeService *payment.StripeService
	userRepo      *repository.UserRepository
	cfg           *config.Config
	logger        *zap.Logger
}

func NewPaymentService(stripeService *payment.StripeService, userRepo *repository.UserRepository, cfg *config.Config, logger *zap.Logger) *PaymentService {
	return &PaymentService{
		stripeService: stripeService,
		userRepo:      userRepo,
		cfg:           cfg,
		logger:        logger,
	}
}

func (s *PaymentService) CreateCheckoutSession(userID uint, plan models.PlanType) (*models.CheckoutSession, error) {
	priceID := s.priceForPlan(plan)
	if priceID == "" {
		return nil, fmt.Errorf("no price configured for plan %s", plan)
	}

	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, errors.New("user not found")
	}

	// Customer yoksa oluştur ve profile yaz
	customerID := user.StripeCustomerID
	if customerID == "" {
		customer, err := s.stripeService.CreateCustomer(user.Email, strconv.FormatUint(uint64(userID), 10))
		if err != nil {
			return nil, err
		}
		customerID = customer.ID

		if err := s.userRepo.SetStripeCustomerID(userID, customerID); err != nil {
			return nil, err
		}
	}

	session, err := s.stripeService.CreateSubscriptionCheckout(
		customerID,
		priceID,
		strconv.FormatUint(uint64(userID), 10),
		s.cfg.AppURL+"/?success=true",
		s.cfg.AppURL+"/?canceled=true",
	)
	if err != nil {
		return nil, err
	}

	return &models.CheckoutSession{
		ID:  session.ID,
		URL: session.URL,
	}, nil
}

func (s *PaymentService) CreatePortalSession(userID uint) (*models.PortalSession, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, errors.New("user not found")
	}

	if user.StripeCustomerID == "" {
		return nil, errors.New("no billing account for user")
	}

	session, err := s.stripeService.CreatePortalSession(user.StripeCustomerID, s.cfg.AppURL)
	if err != nil {
		return nil, err
	}

	return &models.PortalSession{URL: session.URL}, nil
}

// HandleStripeWebhook plan değişikliklerini metadata'daki user_id üzerinden
// profile işler
func (s *PaymentService) HandleStripeWebhook(event *stripe.Event) error {
	switch event.Type {
	case "checkout.session.completed":
		var session stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
			return err
		}

		userID, err := s.userIDFromMetadata(session.Metadata)
		if err != nil || session.Subscription == nil {
			s.logger.Warn("checkout completed without usable metadata",
				zap.String("session_id", session.ID))
			return nil
		}

		subscription, err := s.stripeService.GetSubscription(session.Subscription.ID)
		if err != nil {
			return err
		}

		priceID, ok := subscriptionPriceID(subscription)
		if !ok {
			s.logger.Warn("subscription without line items",
				zap.String("subscription_id", subscription.ID))
			return nil
		}

		plan := s.planFromPriceID(priceID)
		if err := s.userRepo.SetPlan(userID, plan, subscription.ID); err != nil {
			return err
		}

		s.logger.Info("user upgraded",
			zap.Uint("user_id", userID),
			zap.String("plan", string(plan)),
		)
		return nil

	case "customer.subscription.updated":
		var subscription stripe.Subscription
		if err := json.Unmarshal(event.Data.Raw, &subscription); err != nil {
			return err
		}

		userID, err := s.subscriptionUserID(&subscription)
		if err != nil {
			s.logger.Warn("subscription event without resolvable user",
				zap.String("subscription_id", subscription.ID))
			return nil
		}

		if subscription.Status == stripe.SubscriptionStatusActive {
			priceID, ok := subscriptionPriceID(&subscription)
			if !ok {
				s.logger.Warn("subscription without line items",
					zap.String("subscription_id", subscription.ID))
				return nil
			}
			return s.userRepo.SetPlan(userID, s.planFromPriceID(priceID), subscription.ID)
		}
		return nil

	case "customer.subscription.deleted":
		var subscription stripe.Subscription
		if err := json.Unmarshal(event.Data.Raw, &subscription); err != nil {
			return err
		}

		userID, err := s.subscriptionUserID(&subscription)
		if err != nil {
			s.logger.Warn("subscription event without resolvable user",
				zap.String("subscription_id", subscription.ID))
			return nil
		}

		s.logger.Info("user downgraded to free", zap.Uint("user_id", userID))
		return s.userRepo.SetPlan(userID, models.PlanFree, "")

	case "invoice.payment_failed":
		var invoice stripe.Invoice
		if err := json.Unmarshal(event.Data.Raw, &invoice); err != nil {
			return err
		}
		s.logger.Warn("invoice payment failed", zap.String("invoice_id", invoice.ID))
		return nil
	}

	return nil
}

// subscriptionPriceID ilk line item'ın price id'sini döner; webhook
// payload'ı item taşımıyorsa plan güncellemesi atlanır, panik değil
func subscriptionPriceID(subscription *stripe.Subscription) (string, bool) {
	if subscription.Items == nil || len(subscription.Items.Data) == 0 {
		return "", false
	}
	item := subscription.Items.Data[0]
	if item == nil || item.Price == nil {
		return "", false
	}
	return item.Price.ID, true
}

// subscriptionUserID önce metadata'daki user_id'yi dener, yoksa Stripe
// müşteri id'sinden profili bulur
func (s *PaymentService) subscriptionUserID(subscription *stripe.Subscription) (uint, error) {
	if userID, err := s.userIDFromMetadata(subscription.Metadata); err == nil {
		return userID, nil
	}

	if subscription.Customer == nil || subscription.Customer.ID == "" {
		return 0, errors.New("subscription has no customer reference")
	}

	user, err := s.userRepo.GetByStripeCustomerID(subscription.Customer.ID)
	if err != nil {
		return 0, err
	}
	return user.ID, nil
}

func (s *PaymentService) userIDFromMetadata(metadata map[string]string) (uint, error) {
	raw, ok := metadata["user_id"]
	if !ok {
		return 0, errors.New("no user_id in metadata")
	}

	userID, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid user_id in metadata: %w", err)
	}
	return uint(userID), nil
}

func (s *PaymentService) priceForPlan(plan models.PlanType) string {
	switch plan {
	case models.PlanPro:
		return s.cfg.Stripe.PricePro
	case models.PlanTeam:
		return s.cfg.Stripe.PriceTeam
	}
	return ""
}

func (s *PaymentService) planFromPriceID(priceID string) models.PlanType {
	if priceID == s.cfg.Stripe.PriceTeam {
		return models.PlanTeam
	}
	return models.PlanPro
}
