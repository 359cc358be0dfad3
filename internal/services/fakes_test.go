package services

import (
	"context"
	"os"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"eventix_backend/internal/email"
	"eventix_backend/internal/logger"
	"eventix_backend/internal/models"
	"eventix_backend/internal/push"
	"eventix_backend/internal/repositories"
	"eventix_backend/pkg/apperrors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestMain(m *testing.M) {
	logger.Init("test")
	os.Exit(m.Run())
}

var fixedNow = time.Date(2024, 7, 15, 14, 30, 0, 0, time.UTC)

func frozenClock() time.Time { return fixedNow }

// requireAppError asserts err is an AppError with the given status and returns it.
func requireAppError(t *testing.T, err error, status int) *apperrors.AppError {
	t.Helper()
	require.Error(t, err)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok, "expected AppError, got %T: %v", err, err)
	require.Equal(t, status, appErr.HTTPCode, appErr.Error())
	return appErr
}

// ============================================================================
// Events
// ============================================================================

// fakeEventRepo stores events as BSON so callers never share memory with it.
type fakeEventRepo struct {
	mu                sync.Mutex
	docs              map[primitive.ObjectID][]byte
	updateConfigCalls int
}

func newFakeEventRepo() *fakeEventRepo {
	return &fakeEventRepo{docs: map[primitive.ObjectID][]byte{}}
}

func (r *fakeEventRepo) load(id primitive.ObjectID) (*models.Event, bool) {
	raw, ok := r.docs[id]
	if !ok {
		return nil, false
	}
	var e models.Event
	if err := bson.Unmarshal(raw, &e); err != nil {
		panic(err)
	}
	return &e, true
}

func (r *fakeEventRepo) store(e *models.Event) {
	raw, err := bson.Marshal(e)
	if err != nil {
		panic(err)
	}
	r.docs[e.ID] = raw
}

// get returns the stored event, deleted or not.
func (r *fakeEventRepo) get(id primitive.ObjectID) *models.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, _ := r.load(id)
	return e
}

func (r *fakeEventRepo) live() []*models.Event {
	var out []*models.Event
	for id := range r.docs {
		if e, _ := r.load(id); !e.IsDeleted() {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID.Hex() < out[j].ID.Hex() })
	return out
}

func (r *fakeEventRepo) Create(_ context.Context, e *models.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id := range r.docs {
		if other, _ := r.load(id); other.Slug == e.Slug {
			return repositories.ErrSlugTaken
		}
	}
	e.ID = primitive.NewObjectID()
	r.store(e)
	return nil
}

func (r *fakeEventRepo) FindByID(_ context.Context, id primitive.ObjectID) (*models.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.load(id)
	if !ok || e.IsDeleted() {
		return nil, repositories.ErrEventNotFound
	}
	return e, nil
}

func (r *fakeEventRepo) FindBySlug(_ context.Context, slug string) (*models.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.live() {
		if e.Slug == slug {
			return e, nil
		}
	}
	return nil, repositories.ErrEventNotFound
}

func (r *fakeEventRepo) SlugExists(_ context.Context, slug string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id := range r.docs {
		if e, _ := r.load(id); e.Slug == slug {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeEventRepo) List(_ context.Context, f repositories.EventFilter) ([]models.Event, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Event
	for _, e := range r.live() {
		if f.Status != "" && e.Status != f.Status {
			continue
		}
		if f.Type != "" && e.Type != f.Type {
			continue
		}
		out = append(out, *e)
	}
	return out, int64(len(out)), nil
}

func (r *fakeEventRepo) Search(_ context.Context, p repositories.SearchParams) ([]repositories.EventSearchHit, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []repositories.EventSearchHit
	for _, e := range r.live() {
		if e.Status != models.EventStatusPublished {
			continue
		}
		if p.Type != "" && e.Type != p.Type {
			continue
		}
		out = append(out, repositories.EventSearchHit{Event: *e})
	}
	return out, int64(len(out)), nil
}

func (r *fakeEventRepo) Update(_ context.Context, e *models.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if cur, ok := r.load(e.ID); !ok || cur.IsDeleted() {
		return repositories.ErrEventNotFound
	}
	r.store(e)
	return nil
}

func (r *fakeEventRepo) UpdateConfig(_ context.Context, id primitive.ObjectID, cfg models.EventConfig) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.updateConfigCalls++
	e, ok := r.load(id)
	if !ok || e.IsDeleted() {
		return repositories.ErrEventNotFound
	}
	e.Config = cfg
	r.store(e)
	return nil
}

func (r *fakeEventRepo) SoftDelete(_ context.Context, id primitive.ObjectID, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.load(id)
	if !ok || e.IsDeleted() {
		return repositories.ErrEventNotFound
	}
	e.DeletedAt = &at
	r.store(e)
	return nil
}

func (r *fakeEventRepo) IncrementStats(_ context.Context, id primitive.ObjectID, d repositories.EventStatsDelta) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.load(id)
	if !ok {
		return repositories.ErrEventNotFound
	}
	e.Stats.Views += d.Views
	e.Stats.SoldTickets += d.SoldTickets
	e.Stats.Revenue += d.Revenue
	r.store(e)
	return nil
}

// ============================================================================
// Analytics
// ============================================================================

type fakeAnalyticsRepo struct {
	mu      sync.Mutex
	buckets map[string]*models.Analytics
	events  *fakeEventRepo
}

func newFakeAnalyticsRepo(events *fakeEventRepo) *fakeAnalyticsRepo {
	return &fakeAnalyticsRepo{buckets: map[string]*models.Analytics{}, events: events}
}

func bucketKey(k repositories.AnalyticsKey) string {
	return k.EventID.Hex() + "|" + k.Date.UTC().Format(time.RFC3339) + "|" + string(k.Period)
}

func (r *fakeAnalyticsRepo) bucket(k repositories.AnalyticsKey) *models.Analytics {
	key := bucketKey(k)
	b, ok := r.buckets[key]
	if !ok {
		b = &models.Analytics{
			ID:        primitive.NewObjectID(),
			EventID:   k.EventID,
			Date:      k.Date,
			Period:    k.Period,
			CreatedAt: fixedNow,
		}
		r.buckets[key] = b
	}
	return b
}

// put stores a prepared bucket, replacing any with the same key.
func (r *fakeAnalyticsRepo) put(b models.Analytics) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if b.ID.IsZero() {
		b.ID = primitive.NewObjectID()
	}
	r.buckets[bucketKey(repositories.AnalyticsKey{EventID: b.EventID, Date: b.Date, Period: b.Period})] = &b
}

func metricField(m *models.Metrics, name string) *float64 {
	switch name {
	case models.MetricPageViews:
		return &m.PageViews
	case models.MetricUniqueVisitors:
		return &m.UniqueVisitors
	case models.MetricTicketViews:
		return &m.TicketViews
	case models.MetricAddToCart:
		return &m.AddToCart
	case models.MetricCheckoutInitiated:
		return &m.CheckoutInitiated
	case models.MetricConversionRate:
		return &m.ConversionRate
	case models.MetricRevenue:
		return &m.Revenue
	case models.MetricTicketsSold:
		return &m.TicketsSold
	case models.MetricRefunds:
		return &m.Refunds
	case models.MetricCancellations:
		return &m.Cancellations
	case models.MetricAverageOrderValue:
		return &m.AverageOrderValue
	case models.MetricBounceRate:
		return &m.BounceRate
	case models.MetricSessionDuration:
		return &m.SessionDuration
	}
	panic("unknown metric " + name)
}

func applyField(b *models.Analytics, field string, v float64, add bool) {
	switch {
	case strings.HasPrefix(field, "metrics."):
		p := metricField(&b.Metrics, strings.TrimPrefix(field, "metrics."))
		if add {
			*p += v
		} else {
			*p = v
		}
	case field == "devices.desktop":
		b.Devices.Desktop += int64(v)
	case field == "devices.mobile":
		b.Devices.Mobile += int64(v)
	case field == "devices.tablet":
		b.Devices.Tablet += int64(v)
	default:
		panic("unexpected analytics field " + field)
	}
}

func (r *fakeAnalyticsRepo) Increment(_ context.Context, k repositories.AnalyticsKey, inc map[string]float64) (*models.Analytics, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b := r.bucket(k)
	for field, v := range inc {
		applyField(b, field, v, true)
	}
	cp := *b
	return &cp, nil
}

func (r *fakeAnalyticsRepo) SetFields(_ context.Context, id primitive.ObjectID, fields map[string]float64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, b := range r.buckets {
		if b.ID == id {
			for field, v := range fields {
				applyField(b, field, v, false)
			}
			return nil
		}
	}
	return repositories.ErrAnalyticsNotFound
}

func (r *fakeAnalyticsRepo) Initialize(_ context.Context, k repositories.AnalyticsKey) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.bucket(k)
	return nil
}

func (r *fakeAnalyticsRepo) Find(_ context.Context, f repositories.AnalyticsFilter) ([]models.Analytics, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.Analytics, 0)
	for _, b := range r.buckets {
		if f.EventID != nil && b.EventID != *f.EventID {
			continue
		}
		if f.Period != "" && b.Period != f.Period {
			continue
		}
		if f.From != nil && b.Date.Before(*f.From) {
			continue
		}
		if f.To != nil && b.Date.After(*f.To) {
			continue
		}
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out, nil
}

func (r *fakeAnalyticsRepo) TopEvents(_ context.Context, metric string, limit int) ([]repositories.TopEvent, error) {
	r.mu.Lock()
	totals := map[primitive.ObjectID]float64{}
	for _, b := range r.buckets {
		if b.Period == models.PeriodDay {
			totals[b.EventID] += b.Metrics.Get(metric)
		}
	}
	r.mu.Unlock()

	ranked := make([]primitive.ObjectID, 0, len(totals))
	for id := range totals {
		ranked = append(ranked, id)
	}
	sort.Slice(ranked, func(i, j int) bool { return totals[ranked[i]] > totals[ranked[j]] })
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}

	// Like $unwind after $lookup, events that no longer exist are dropped
	// after the limit.
	var out []repositories.TopEvent
	for _, id := range ranked {
		e := r.events.get(id)
		if e == nil {
			continue
		}
		out = append(out, repositories.TopEvent{
			EventID:     id,
			EventName:   e.Name,
			EventType:   e.Type,
			TotalMetric: totals[id],
			StartDate:   e.StartDate,
		})
	}
	return out, nil
}

// ============================================================================
// Notifications
// ============================================================================

type fakeNotificationRepo struct {
	mu    sync.Mutex
	items []*models.Notification
}

func (r *fakeNotificationRepo) find(id primitive.ObjectID) *models.Notification {
	for _, n := range r.items {
		if n.ID == id {
			return n
		}
	}
	return nil
}

func (r *fakeNotificationRepo) stored(id primitive.ObjectID) models.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return *r.find(id)
}

func (r *fakeNotificationRepo) Create(_ context.Context, n *models.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	n.ID = primitive.NewObjectID()
	cp := *n
	r.items = append(r.items, &cp)
	return nil
}

func (r *fakeNotificationRepo) CreateMany(_ context.Context, ns []*models.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, n := range ns {
		n.ID = primitive.NewObjectID()
		cp := *n
		r.items = append(r.items, &cp)
	}
	return nil
}

func (r *fakeNotificationRepo) FindByUser(_ context.Context, f repositories.NotificationFilter) ([]models.Notification, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.Notification, 0)
	for i := len(r.items) - 1; i >= 0; i-- {
		n := r.items[i]
		if n.UserID != f.UserID || (f.UnreadOnly && n.Read) {
			continue
		}
		if f.Category != "" && n.Category != f.Category {
			continue
		}
		out = append(out, *n)
	}
	return out, int64(len(out)), nil
}

func (r *fakeNotificationRepo) CountUnread(_ context.Context, userID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, n := range r.items {
		if n.UserID == userID && !n.Read {
			count++
		}
	}
	return count, nil
}

func (r *fakeNotificationRepo) MarkAsRead(_ context.Context, id primitive.ObjectID, userID string, at time.Time) (*models.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := r.find(id)
	if n == nil || n.UserID != userID {
		return nil, repositories.ErrNotificationNotFound
	}
	n.Read = true
	n.ReadAt = &at
	cp := *n
	return &cp, nil
}

func (r *fakeNotificationRepo) MarkAllAsRead(_ context.Context, userID string, at time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, n := range r.items {
		if n.UserID == userID && !n.Read {
			n.Read = true
			n.ReadAt = &at
			count++
		}
	}
	return count, nil
}

func (r *fakeNotificationRepo) Delete(_ context.Context, id primitive.ObjectID, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, n := range r.items {
		if n.ID == id && n.UserID == userID {
			r.items = append(r.items[:i], r.items[i+1:]...)
			return nil
		}
	}
	return repositories.ErrNotificationNotFound
}

func (r *fakeNotificationRepo) MarkDispatched(_ context.Context, id primitive.ObjectID, ch repositories.DispatchChannel, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := r.find(id)
	if n == nil {
		return repositories.ErrNotificationNotFound
	}
	switch ch {
	case repositories.ChannelEmail:
		n.EmailSent, n.EmailSentAt = true, &at
	case repositories.ChannelPush:
		n.PushSent, n.PushSentAt = true, &at
	}
	return nil
}

func (r *fakeNotificationRepo) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.items[:0]
	var removed int64
	for _, n := range r.items {
		if n.ExpiresAt != nil && !n.ExpiresAt.After(now) {
			removed++
			continue
		}
		kept = append(kept, n)
	}
	r.items = kept
	return removed, nil
}

// ============================================================================
// Users
// ============================================================================

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]*models.User{}}
}

// add stores an active user with the given roles and returns its id.
func (r *fakeUserRepo) add(email string, roles ...models.UserRole) string {
	u := &models.User{Email: email, Name: "Test User", Status: models.UserStatusActive}
	u.ID = uuid.NewString()
	for i, role := range roles {
		u.Roles = append(u.Roles, models.Role{ID: uint(i + 1), Name: role})
	}
	r.mu.Lock()
	r.users[u.ID] = u
	r.mu.Unlock()
	return u.ID
}

func (r *fakeUserRepo) FindByID(_ context.Context, id string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, repositories.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) FindByEmail(_ context.Context, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == strings.ToLower(email) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

func (r *fakeUserRepo) Create(_ context.Context, u *models.User, roles ...models.UserRole) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u.Email = strings.ToLower(u.Email)
	for _, other := range r.users {
		if other.Email == u.Email {
			return repositories.ErrUserAlreadyExists
		}
	}
	u.ID = uuid.NewString()
	u.CreatedAt = fixedNow
	for i, role := range roles {
		u.Roles = append(u.Roles, models.Role{ID: uint(i + 1), Name: role})
	}
	cp := *u
	r.users[u.ID] = &cp
	return nil
}

func (r *fakeUserRepo) UpdateProfile(_ context.Context, id string, f repositories.UserProfileFields) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, repositories.ErrUserNotFound
	}
	if f.Name != nil {
		u.Name = *f.Name
	}
	if f.Phone != nil {
		u.Phone = *f.Phone
	}
	if f.Preferences != nil {
		u.Preferences = f.Preferences
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[id]; !ok {
		return repositories.ErrUserNotFound
	}
	delete(r.users, id)
	return nil
}

func (r *fakeUserRepo) List(_ context.Context, f repositories.UserFilter) ([]models.User, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.User
	for _, u := range r.users {
		if f.Role != "" && !u.HasRole(f.Role) {
			continue
		}
		out = append(out, *u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Email < out[j].Email })
	return out, int64(len(out)), nil
}

func (r *fakeUserRepo) setStatus(id string, status models.UserStatus) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[id].Status = status
}

// ============================================================================
// Configurations
// ============================================================================

type fakeConfigRepo struct {
	mu    sync.Mutex
	byKey map[string]*models.Configuration
}

func newFakeConfigRepo() *fakeConfigRepo {
	return &fakeConfigRepo{byKey: map[string]*models.Configuration{}}
}

func (r *fakeConfigRepo) FindActiveByKey(_ context.Context, key string) (*models.Configuration, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.byKey[key]
	if !ok || !c.IsActive {
		return nil, repositories.ErrConfigurationNotFound
	}
	cp := *c
	return &cp, nil
}

func (r *fakeConfigRepo) Exists(_ context.Context, key string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.byKey[key]
	return ok, nil
}

func (r *fakeConfigRepo) Upsert(_ context.Context, c *models.Configuration) (*models.Configuration, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.byKey[c.Key]
	if !ok {
		cur = &models.Configuration{ID: primitive.NewObjectID(), Key: c.Key, IsActive: true, CreatedAt: fixedNow}
		r.byKey[c.Key] = cur
	}
	cur.Value = c.Value
	cur.Category = c.Category
	cur.Description = c.Description
	cur.IsPublic = c.IsPublic
	cur.CreatedBy = c.CreatedBy
	cur.UpdatedAt = fixedNow
	cp := *cur
	return &cp, nil
}

func (r *fakeConfigRepo) filter(keep func(*models.Configuration) bool) []models.Configuration {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.Configuration, 0)
	for _, c := range r.byKey {
		if c.IsActive && keep(c) {
			out = append(out, *c)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Category != out[j].Category {
			return out[i].Category < out[j].Category
		}
		return out[i].Key < out[j].Key
	})
	return out
}

func (r *fakeConfigRepo) FindByCategory(_ context.Context, cat models.ConfigCategory) ([]models.Configuration, error) {
	return r.filter(func(c *models.Configuration) bool { return c.Category == cat }), nil
}

func (r *fakeConfigRepo) FindPublic(_ context.Context) ([]models.Configuration, error) {
	return r.filter(func(c *models.Configuration) bool { return c.IsPublic }), nil
}

func (r *fakeConfigRepo) FindAll(_ context.Context) ([]models.Configuration, error) {
	return r.filter(func(*models.Configuration) bool { return true }), nil
}

// ============================================================================
// Delivery mocks
// ============================================================================

type mockEmailProvider struct {
	mock.Mock
}

func (m *mockEmailProvider) Send(ctx context.Context, e *email.Email) error {
	return m.Called(ctx, e).Error(0)
}

func (m *mockEmailProvider) SendTemplate(ctx context.Context, to []string, subject string, templateName string, data email.TemplateData) error {
	return m.Called(ctx, to, subject, templateName, data).Error(0)
}

func (m *mockEmailProvider) Validate() error {
	return m.Called().Error(0)
}

type mockPushSender struct {
	mock.Mock
}

func (m *mockPushSender) Send(ctx context.Context, msg *push.Message) error {
	return m.Called(ctx, msg).Error(0)
}

var (
	_ repositories.EventRepository         = (*fakeEventRepo)(nil)
	_ repositories.AnalyticsRepository     = (*fakeAnalyticsRepo)(nil)
	_ repositories.NotificationRepository  = (*fakeNotificationRepo)(nil)
	_ repositories.UserRepository          = (*fakeUserRepo)(nil)
	_ repositories.ConfigurationRepository = (*fakeConfigRepo)(nil)
	_ email.Provider                       = (*mockEmailProvider)(nil)
	_ push.Sender                          = (*mockPushSender)(nil)
)
