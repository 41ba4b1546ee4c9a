package service

import (
	"context"
	"crypto/hmac"
	"errors"
	"fmt"
	"log"
	"marketpay/internal/client"
	"marketpay/internal/dto"
	"marketpay/internal/model"
	"marketpay/internal/repository"
	"strconv"
	"time"

	"gorm.io/gorm"
)

var (
	ErrAmountMismatch        = errors.New("amount does not match product price")
	ErrBelowMinimum          = errors.New("amount is below the minimum top-up")
	ErrGatewayNotConfigured  = errors.New("payment gateway is not configured")
	ErrWebhookSecretMismatch = errors.New("webhook secret mismatch")
)

// How far back check-return looks for an already-fulfilled purchase when no
// pending intent is left (the webhook beat the browser back).
const recentConfirmWindow = time.Hour

// ConfirmResult reports what a confirmation attempt did. Credited is false
// for the idempotent no-op case: the intent was already settled or was never
// tracked locally.
type ConfirmResult struct {
	Credited      bool
	ProductID     *uint
	DeliveryToken string
}

type PaymentService interface {
	CreateIntent(ctx context.Context, userID uint, req *dto.CreatePaymentRequest) (*dto.CreatePaymentResponse, error)
	HandleWebhook(ctx context.Context, providedSecret string, payload *dto.WebhookPayload) error
	CheckReturn(ctx context.Context, userID uint) (*dto.CheckReturnResponse, error)
}

type paymentServiceImpl struct {
	db              *gorm.DB
	gatewayClient   client.GatewayClient
	resolveSettings client.SettingsResolver
	baseURL         string
	userRepo        repository.UserRepository
	productRepo     repository.ProductRepository
	intentRepo      repository.PaymentIntentRepository
	purchaseRepo    repository.PurchaseRepository
	deliveryRepo    repository.DeliveryCredentialRepository
	notifRepo       repository.NotificationRepository
	deliveryService DeliveryService
}

func NewPaymentService(
	db *gorm.DB,
	gatewayClient client.GatewayClient,
	resolveSettings client.SettingsResolver,
	baseURL string,
	userRepo repository.UserRepository,
	productRepo repository.ProductRepository,
	intentRepo repository.PaymentIntentRepository,
	purchaseRepo repository.PurchaseRepository,
	deliveryRepo repository.DeliveryCredentialRepository,
	notifRepo repository.NotificationRepository,
	deliveryService DeliveryService,
) PaymentService {
	return &paymentServiceImpl{
		db:              db,
		gatewayClient:   gatewayClient,
		resolveSettings: resolveSettings,
		baseURL:         baseURL,
		userRepo:        userRepo,
		productRepo:     productRepo,
		intentRepo:      intentRepo,
		purchaseRepo:    purchaseRepo,
		deliveryRepo:    deliveryRepo,
		notifRepo:       notifRepo,
		deliveryService: deliveryService,
	}
}

func (s *paymentServiceImpl) CreateIntent(ctx context.Context, userID uint, req *dto.CreatePaymentRequest) (*dto.CreatePaymentResponse, error) {
	settings, err := s.resolveSettings(ctx)
	if err != nil {
		return nil, fmt.Errorf("resolve gateway settings: %w", err)
	}

	var product *model.Product
	if req.ProductID != nil {
		product, err = s.productRepo.FindByID(ctx, *req.ProductID)
		if err != nil {
			return nil, fmt.Errorf("find product: %w", err)
		}
		// The submitted amount must match the listed price exactly; the
		// client may hold a stale price or a tampered one.
		if req.Amount != product.Price {
			return nil, ErrAmountMismatch
		}
	} else if req.Amount < settings.MinTopup {
		return nil, ErrBelowMinimum
	}

	if settings.DemoMode && product != nil {
		return s.demoPurchase(ctx, userID, product)
	}

	if !settings.Configured() {
		return nil, ErrGatewayNotConfigured
	}

	description := "Balance top-up"
	if product != nil {
		description = product.Name
	}

	resp, err := s.gatewayClient.CreateTransaction(ctx, &client.CreateTransactionRequest{
		Amount:      req.Amount,
		Currency:    settings.Currency,
		Description: description,
		SuccessURL:  s.baseURL + "/payment/success",
		FailedURL:   s.baseURL + "/payment/failed",
		Payload:     strconv.FormatUint(uint64(userID), 10),
		Method:      client.MethodCode(req.PaymentMethod),
	})
	if err != nil {
		return nil, fmt.Errorf("gateway create transaction: %w", err)
	}
	if resp.TransactionID == "" {
		// Nothing to reconcile; do not persist an intent.
		return nil, fmt.Errorf("%w: gateway returned no transaction id: %s", client.ErrGateway, resp.Message)
	}

	intent := &model.PaymentIntent{
		UserID:               userID,
		Amount:               req.Amount,
		GatewayTransactionID: resp.TransactionID,
		ProductID:            req.ProductID,
		Status:               model.IntentStatusPending,
	}
	if err := s.intentRepo.Create(ctx, intent); err != nil {
		return nil, fmt.Errorf("store payment intent: %w", err)
	}

	return &dto.CreatePaymentResponse{
		Redirect:      resp.RedirectURL,
		TransactionID: resp.TransactionID,
		Status:        model.IntentStatusPending,
	}, nil
}

// demoPurchase fulfills a product purchase instantly, without the gateway and
// without a payment intent row.
func (s *paymentServiceImpl) demoPurchase(ctx context.Context, userID uint, product *model.Product) (*dto.CreatePaymentResponse, error) {
	var token string
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.purchaseRepo.Create(ctx, tx, &model.Purchase{
			UserID:    userID,
			ProductID: product.ID,
			Price:     product.Price,
		}); err != nil {
			return fmt.Errorf("store purchase: %w", err)
		}

		var err error
		token, err = s.deliveryService.Issue(ctx, tx, product.ID, &userID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.notifyAdmins(ctx, "Demo purchase",
		fmt.Sprintf("User %d purchased %q (demo mode, %s)", userID, product.Name, formatAmount(product.Price)))

	return &dto.CreatePaymentResponse{
		Redirect:      "/delivery/" + token,
		Status:        model.IntentStatusConfirmed,
		DeliveryToken: token,
	}, nil
}

// confirm is the single funnel both notification paths go through. The
// PENDING -> CONFIRMED flip and the ledger effect run in one transaction;
// whichever caller's conditional update lands first does the crediting, every
// other caller gets the inert result.
func (s *paymentServiceImpl) confirm(ctx context.Context, gatewayTxID string, source string) (*ConfirmResult, error) {
	result := &ConfirmResult{}
	var notifTitle, notifBody string
	var topupUser uint

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		intent, flipped, err := s.intentRepo.ConfirmPending(ctx, tx, gatewayTxID)
		if err != nil {
			return fmt.Errorf("confirm pending intent: %w", err)
		}
		if !flipped {
			return nil
		}

		if intent.ProductID != nil {
			// Re-read the product inside the transaction: delivery content
			// edited after intent creation must win.
			product, err := s.productRepo.FindByIDTx(ctx, tx, *intent.ProductID)
			if err != nil {
				return fmt.Errorf("find product: %w", err)
			}

			if err := s.purchaseRepo.Create(ctx, tx, &model.Purchase{
				UserID:    intent.UserID,
				ProductID: product.ID,
				Price:     intent.Amount,
			}); err != nil {
				return fmt.Errorf("store purchase: %w", err)
			}

			token, err := s.deliveryService.Issue(ctx, tx, product.ID, &intent.UserID)
			if err != nil {
				return err
			}

			result.Credited = true
			result.ProductID = intent.ProductID
			result.DeliveryToken = token
			notifTitle = "Product purchased"
			notifBody = fmt.Sprintf("User %d purchased %q for %s (tx %s, via %s)",
				intent.UserID, product.Name, formatAmount(intent.Amount), gatewayTxID, source)
			return nil
		}

		if err := s.userRepo.AddBalance(ctx, tx, intent.UserID, intent.Amount); err != nil {
			return fmt.Errorf("credit balance: %w", err)
		}

		result.Credited = true
		topupUser = intent.UserID
		notifTitle = "Balance top-up"
		notifBody = fmt.Sprintf("credited %s (tx %s, via %s)", formatAmount(intent.Amount), gatewayTxID, source)
		return nil
	})
	if err != nil {
		return nil, err
	}

	if result.Credited {
		if topupUser != 0 {
			name := fmt.Sprintf("user %d", topupUser)
			if user, err := s.userRepo.FindByID(ctx, topupUser); err == nil {
				name = user.Name
			}
			notifBody = fmt.Sprintf("%s %s", name, notifBody)
		}
		s.notifyAdmins(ctx, notifTitle, notifBody)
	}

	return result, nil
}

func (s *paymentServiceImpl) HandleWebhook(ctx context.Context, providedSecret string, payload *dto.WebhookPayload) error {
	settings, err := s.resolveSettings(ctx)
	if err != nil {
		return fmt.Errorf("resolve gateway settings: %w", err)
	}

	if settings.WebhookSecret != "" &&
		!hmac.Equal([]byte(providedSecret), []byte(settings.WebhookSecret)) {
		return ErrWebhookSecretMismatch
	}

	switch payload.Status {
	case client.TxStatusConfirmed:
		_, err := s.confirm(ctx, payload.ID, "webhook")
		return err
	case client.TxStatusCanceled, client.TxStatusChargebacked:
		// Terminal: a canceled transaction must never credit later, even if
		// the gateway reports CONFIRMED afterwards.
		_, err := s.intentRepo.CancelPending(ctx, payload.ID)
		return err
	default:
		// Acknowledged, nothing to reconcile.
		return nil
	}
}

func (s *paymentServiceImpl) CheckReturn(ctx context.Context, userID uint) (*dto.CheckReturnResponse, error) {
	intent, err := s.intentRepo.FindLatestPendingByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("find pending intent: %w", err)
	}

	if intent == nil {
		// The webhook may already have settled everything before the browser
		// came back; hand out the credential it minted.
		return s.settledResult(ctx, userID)
	}

	status, err := s.gatewayClient.GetTransactionStatus(ctx, intent.GatewayTransactionID)
	if err != nil {
		return nil, fmt.Errorf("gateway get status: %w", err)
	}

	switch status {
	case client.TxStatusConfirmed:
		res, err := s.confirm(ctx, intent.GatewayTransactionID, "poll")
		if err != nil {
			return nil, err
		}

		resp := &dto.CheckReturnResponse{
			Status:        model.IntentStatusConfirmed,
			Credited:      res.Credited,
			ProductID:     res.ProductID,
			DeliveryToken: res.DeliveryToken,
		}
		// Lost the race to the webhook: the credential already exists.
		if !res.Credited && intent.ProductID != nil {
			if cred, err := s.deliveryRepo.FindLatestForUserProduct(ctx, userID, *intent.ProductID); err == nil && cred != nil {
				resp.ProductID = intent.ProductID
				resp.DeliveryToken = cred.Token
			}
		}
		return resp, nil
	case client.TxStatusCanceled, client.TxStatusChargebacked:
		if _, err := s.intentRepo.CancelPending(ctx, intent.GatewayTransactionID); err != nil {
			return nil, fmt.Errorf("cancel pending intent: %w", err)
		}
		return &dto.CheckReturnResponse{Status: status}, nil
	default:
		return &dto.CheckReturnResponse{Status: status}, nil
	}
}

func (s *paymentServiceImpl) settledResult(ctx context.Context, userID uint) (*dto.CheckReturnResponse, error) {
	intent, err := s.intentRepo.FindLatestConfirmedProductByUser(ctx, userID, time.Now().Add(-recentConfirmWindow))
	if err != nil {
		return nil, fmt.Errorf("find confirmed intent: %w", err)
	}
	if intent == nil {
		return &dto.CheckReturnResponse{Status: "NONE"}, nil
	}

	cred, err := s.deliveryRepo.FindLatestForUserProduct(ctx, userID, *intent.ProductID)
	if err != nil {
		return nil, fmt.Errorf("find delivery credential: %w", err)
	}
	if cred == nil {
		return &dto.CheckReturnResponse{Status: "NONE"}, nil
	}

	return &dto.CheckReturnResponse{
		Status:        model.IntentStatusConfirmed,
		ProductID:     intent.ProductID,
		DeliveryToken: cred.Token,
	}, nil
}

// notifyAdmins fans the event out to every administrator. Failures are
// logged, never propagated: a lost notification must not undo a credit.
func (s *paymentServiceImpl) notifyAdmins(ctx context.Context, title, body string) {
	admins, err := s.userRepo.FindAdmins(ctx)
	if err != nil {
		log.Println("notify admins: list admins:", err)
		return
	}

	ids := make([]uint, len(admins))
	for i, a := range admins {
		ids[i] = a.ID
	}

	if err := s.notifRepo.FanOut(ctx, ids, title, body); err != nil {
		log.Println("notify admins: fan out:", err)
	}
}
