package service

import (
	"sync"
	"testing"
	"time"

	"gorm.io/gorm"

	"devmarket/internal/repository"
	"devmarket/internal/testutil"
	"devmarket/internal/ws"
	"devmarket/pkg/jwt"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events map[uint][]ws.Event
}

func (p *recordingPublisher) Publish(userID uint, event ws.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.events == nil {
		p.events = map[uint][]ws.Event{}
	}
	p.events[userID] = append(p.events[userID], event)
}

func (p *recordingPublisher) types(userID uint) []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []string
	for _, e := range p.events[userID] {
		out = append(out, e.Type)
	}
	return out
}

type fakeFiles struct {
	removed []string
}

func (f *fakeFiles) Remove(rel string) error {
	f.removed = append(f.removed, rel)
	return nil
}

type fixture struct {
	db        *gorm.DB
	publisher *recordingPublisher
	files     *fakeFiles

	userRepo        repository.UserRepository
	productRepo     repository.ProductRepository
	categoryRepo    repository.CategoryRepository
	transactionRepo repository.TransactionRepository
	accessRepo      repository.AccessRequestRepository
	messageRepo     repository.MessageRepository
	methodRepo      repository.PaymentMethodRepository
	settingRepo     repository.SettingRepository

	auth     AuthService
	users    UserService
	products ProductService
	category CategoryService
	access   AccessService
	checkout CheckoutService
	messages MessageService
	methods  PaymentMethodService
	orders   OrderService
	settings SettingService
	stats    DashboardService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db := testutil.NewDB(t)
	f := &fixture{
		db:              db,
		publisher:       &recordingPublisher{},
		files:           &fakeFiles{},
		userRepo:        repository.NewUserRepo(db),
		productRepo:     repository.NewProductRepo(db),
		categoryRepo:    repository.NewCategoryRepo(db),
		transactionRepo: repository.NewTransactionRepo(db),
		accessRepo:      repository.NewAccessRequestRepo(db),
		messageRepo:     repository.NewMessageRepo(db),
		methodRepo:      repository.NewPaymentMethodRepo(db),
		settingRepo:     repository.NewSettingRepo(db),
	}

	f.auth = NewAuthService(f.userRepo, jwt.NewManager("test-secret", time.Hour))
	f.users = NewUserService(f.userRepo, db)
	f.products = NewProductService(f.productRepo, f.categoryRepo, f.userRepo, f.accessRepo, f.files, db, f.publisher)
	f.category = NewCategoryService(f.categoryRepo)
	f.access = NewAccessService(f.accessRepo, f.productRepo, f.userRepo, f.publisher)
	f.checkout = NewCheckoutService(f.productRepo, f.transactionRepo, f.methodRepo, db, f.publisher)
	f.messages = NewMessageService(f.messageRepo, f.userRepo, f.publisher)
	f.methods = NewPaymentMethodService(f.methodRepo, db)
	f.orders = NewOrderService(f.transactionRepo, f.productRepo, db)
	f.settings = NewSettingService(f.settingRepo)
	f.stats = NewDashboardService(f.transactionRepo)
	return f
}
