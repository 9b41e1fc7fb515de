package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/mock"

	"equipment-tracker/internal/entities"
	"equipment-tracker/internal/lifecycle"
	"equipment-tracker/internal/repositories"
	apperrors "equipment-tracker/pkg/errors"
	"equipment-tracker/pkg/eventbus"
	"equipment-tracker/pkg/types"
)

var fixedNow = time.Date(2025, time.March, 10, 9, 30, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

// --- транзакции ---

type fakeTxManager struct {
	calls int
	err   error
}

func (m *fakeTxManager) RunInTransaction(_ context.Context, fn func(tx pgx.Tx) error) error {
	m.calls++
	if m.err != nil {
		return m.err
	}
	return fn(nil)
}

// --- оборудование ---

type fakeEquipmentRepo struct {
	mu        sync.Mutex
	items     map[uint64]*entities.Equipment
	nextID    uint64
	taken     map[string]bool
	positions int

	statusErr   error
	positionErr error

	bucketCounts *repositories.EquipmentBucketCounts
	buckets      map[repositories.EquipmentBucket][]entities.Equipment
	bucketLimits []uint64
	lastBounds   repositories.BucketBounds
}

func newFakeEquipmentRepo(items ...entities.Equipment) *fakeEquipmentRepo {
	r := &fakeEquipmentRepo{
		items:   make(map[uint64]*entities.Equipment),
		taken:   make(map[string]bool),
		buckets: make(map[repositories.EquipmentBucket][]entities.Equipment),
	}
	for i := range items {
		e := items[i]
		r.items[e.ID] = &e
		if e.ID > r.nextID {
			r.nextID = e.ID
		}
	}
	return r
}

func (r *fakeEquipmentRepo) FindByID(_ context.Context, _ pgx.Tx, id uint64) (*entities.Equipment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.items[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	cp := *e
	return &cp, nil
}

func (r *fakeEquipmentRepo) FindByCode(_ context.Context, _ pgx.Tx, code string) (*entities.Equipment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.items {
		if e.QRCode == code {
			cp := *e
			return &cp, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (r *fakeEquipmentRepo) GetAll(_ context.Context, _ types.Filter) ([]entities.Equipment, uint64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]entities.Equipment, 0, len(r.items))
	for _, e := range r.items {
		out = append(out, *e)
	}
	return out, uint64(len(out)), nil
}

func (r *fakeEquipmentRepo) CodeExists(_ context.Context, _ pgx.Tx, code string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.taken[code] {
		return true, nil
	}
	for _, e := range r.items {
		if e.QRCode == code {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeEquipmentRepo) Create(_ context.Context, _ pgx.Tx, e entities.Equipment) (uint64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.items {
		if existing.QRCode == e.QRCode {
			return 0, fmt.Errorf("%w: qr_code", apperrors.ErrConflict)
		}
	}
	r.nextID++
	e.ID = r.nextID
	r.items[e.ID] = &e
	return e.ID, nil
}

func (r *fakeEquipmentRepo) Update(_ context.Context, _ pgx.Tx, id uint64, e entities.Equipment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return apperrors.ErrNotFound
	}
	e.ID = id
	r.items[id] = &e
	return nil
}

func (r *fakeEquipmentRepo) SetStatus(_ context.Context, _ pgx.Tx, id uint64, status lifecycle.StoredStatus) error {
	if r.statusErr != nil {
		return r.statusErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.items[id]
	if !ok {
		return apperrors.ErrNotFound
	}
	e.Status = status
	return nil
}

func (r *fakeEquipmentRepo) MarkServiced(_ context.Context, _ pgx.Tx, id uint64, last, next time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.items[id]
	if !ok {
		return apperrors.ErrNotFound
	}
	e.Status = lifecycle.StatusActive
	e.LastMaintenanceDate = &last
	e.NextMaintenanceDate = &next
	return nil
}

func (r *fakeEquipmentRepo) UpdatePosition(_ context.Context, _ pgx.Tx, id uint64, coord lifecycle.Coordinate, seenAt time.Time) error {
	if r.positionErr != nil {
		return r.positionErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.items[id]
	if !ok {
		return apperrors.ErrNotFound
	}
	lat, lng := coord.Lat, coord.Lng
	e.LastKnownLat, e.LastKnownLng, e.LastSeenAt = &lat, &lng, &seenAt
	r.positions++
	return nil
}

func (r *fakeEquipmentRepo) CountBuckets(_ context.Context, bounds repositories.BucketBounds) (*repositories.EquipmentBucketCounts, error) {
	r.lastBounds = bounds
	if r.bucketCounts == nil {
		return &repositories.EquipmentBucketCounts{}, nil
	}
	return r.bucketCounts, nil
}

func (r *fakeEquipmentRepo) ListBucket(_ context.Context, bucket repositories.EquipmentBucket, _ repositories.BucketBounds, limit uint64) ([]entities.Equipment, error) {
	r.bucketLimits = append(r.bucketLimits, limit)
	items := r.buckets[bucket]
	if uint64(len(items)) > limit {
		items = items[:limit]
	}
	return items, nil
}

// --- типы оборудования ---

type fakeTypeRepo struct {
	items  map[uint64]*entities.EquipmentType
	nextID uint64
}

func newFakeTypeRepo(items ...entities.EquipmentType) *fakeTypeRepo {
	r := &fakeTypeRepo{items: make(map[uint64]*entities.EquipmentType)}
	for i := range items {
		t := items[i]
		r.items[t.ID] = &t
		if t.ID > r.nextID {
			r.nextID = t.ID
		}
	}
	return r
}

func (r *fakeTypeRepo) FindByID(_ context.Context, _ pgx.Tx, id uint64) (*entities.EquipmentType, error) {
	t, ok := r.items[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	cp := *t
	return &cp, nil
}

func (r *fakeTypeRepo) FindByName(_ context.Context, _ pgx.Tx, name string) (*entities.EquipmentType, error) {
	for _, t := range r.items {
		if strings.EqualFold(t.Name, name) {
			cp := *t
			return &cp, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (r *fakeTypeRepo) GetAll(_ context.Context, _ types.Filter) ([]entities.EquipmentType, uint64, error) {
	out := make([]entities.EquipmentType, 0, len(r.items))
	for _, t := range r.items {
		out = append(out, *t)
	}
	return out, uint64(len(out)), nil
}

func (r *fakeTypeRepo) Create(_ context.Context, _ pgx.Tx, t entities.EquipmentType) (uint64, error) {
	r.nextID++
	t.ID = r.nextID
	r.items[t.ID] = &t
	return t.ID, nil
}

func (r *fakeTypeRepo) Update(_ context.Context, _ pgx.Tx, id uint64, t entities.EquipmentType) error {
	if _, ok := r.items[id]; !ok {
		return apperrors.ErrNotFound
	}
	t.ID = id
	r.items[id] = &t
	return nil
}

func (r *fakeTypeRepo) Delete(_ context.Context, _ pgx.Tx, id uint64) error {
	if _, ok := r.items[id]; !ok {
		return apperrors.ErrNotFound
	}
	delete(r.items, id)
	return nil
}

// --- инспекции ---

type fakeInspectionRepo struct {
	mu        sync.Mutex
	items     []entities.Inspection
	createErr error
	period    repositories.InspectionPeriod
}

func (r *fakeInspectionRepo) Create(_ context.Context, _ pgx.Tx, ins entities.Inspection) (uint64, time.Time, error) {
	if r.createErr != nil {
		return 0, time.Time{}, r.createErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	ins.ID = uint64(len(r.items) + 1)
	ins.CreatedAt = fixedNow
	r.items = append(r.items, ins)
	return ins.ID, ins.CreatedAt, nil
}

func (r *fakeInspectionRepo) FindByID(_ context.Context, id uint64) (*entities.Inspection, error) {
	for _, ins := range r.items {
		if ins.ID == id {
			cp := ins
			return &cp, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (r *fakeInspectionRepo) ListByEquipment(_ context.Context, equipmentID uint64, _ types.Filter) ([]entities.Inspection, uint64, error) {
	out := make([]entities.Inspection, 0)
	for _, ins := range r.items {
		if ins.EquipmentID == equipmentID {
			out = append(out, ins)
		}
	}
	return out, uint64(len(out)), nil
}

func (r *fakeInspectionRepo) ListByInspector(_ context.Context, inspectorID uint64, period repositories.InspectionPeriod) ([]entities.Inspection, error) {
	r.period = period
	out := make([]entities.Inspection, 0)
	for _, ins := range r.items {
		if ins.InspectorID != nil && *ins.InspectorID == inspectorID {
			out = append(out, ins)
		}
	}
	return out, nil
}

func (r *fakeInspectionRepo) ListForReport(_ context.Context, period repositories.InspectionPeriod, _ types.Filter) ([]entities.Inspection, error) {
	r.period = period
	return r.items, nil
}

// --- журнал позиций ---

type fakeLocationLogRepo struct {
	mu        sync.Mutex
	entries   []entities.LocationLog
	appendErr error
}

func (r *fakeLocationLogRepo) Append(_ context.Context, _ pgx.Tx, log entities.LocationLog) (uint64, error) {
	if r.appendErr != nil {
		return 0, r.appendErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	log.ID = uint64(len(r.entries) + 1)
	r.entries = append(r.entries, log)
	return log.ID, nil
}

func (r *fakeLocationLogRepo) ListByEquipment(_ context.Context, equipmentID uint64, limit uint64) ([]entities.LocationLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]entities.LocationLog, 0)
	for i := len(r.entries) - 1; i >= 0 && uint64(len(out)) < limit; i-- {
		if r.entries[i].EquipmentID == equipmentID {
			out = append(out, r.entries[i])
		}
	}
	return out, nil
}

// --- профили и кэш ---

type fakeProfileRepo struct {
	profiles map[uint64]entities.Profile
	findErr  error
}

func (r *fakeProfileRepo) FindByID(_ context.Context, id uint64) (*entities.Profile, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	p, ok := r.profiles[id]
	if !ok {
		return nil, apperrors.ErrProfileNotFound
	}
	return &p, nil
}

func (r *fakeProfileRepo) FindByEmail(_ context.Context, email string) (*entities.Profile, error) {
	for _, p := range r.profiles {
		if p.Email == email {
			cp := p
			return &cp, nil
		}
	}
	return nil, apperrors.ErrProfileNotFound
}

func (r *fakeProfileRepo) ListIDsByRole(_ context.Context, role string) ([]uint64, error) {
	ids := make([]uint64, 0)
	for id, p := range r.profiles {
		if p.Role == role {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func (r *fakeProfileRepo) Upsert(_ context.Context, _ pgx.Tx, p entities.Profile) (uint64, error) {
	id := uint64(len(r.profiles) + 1)
	p.ID = id
	r.profiles[id] = p
	return id, nil
}

type fakeCache struct {
	mu     sync.Mutex
	values map[string]string
	ttl    map[string]time.Duration
	down   bool
	setErr error
}

func newFakeCache() *fakeCache {
	return &fakeCache{values: make(map[string]string), ttl: make(map[string]time.Duration)}
}

var errCacheDown = fmt.Errorf("redis: connection refused")

func (c *fakeCache) Set(_ context.Context, key string, value interface{}, expiration time.Duration) error {
	if c.down {
		return errCacheDown
	}
	if c.setErr != nil {
		return c.setErr
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.values[key] = fmt.Sprint(value)
	c.ttl[key] = expiration
	return nil
}

func (c *fakeCache) Get(_ context.Context, key string) (string, error) {
	if c.down {
		return "", errCacheDown
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.values[key]
	if !ok {
		return "", repositories.ErrCacheMiss
	}
	return v, nil
}

func (c *fakeCache) Del(_ context.Context, keys ...string) error {
	if c.down {
		return errCacheDown
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		delete(c.values, k)
	}
	return nil
}

func (c *fakeCache) Incr(_ context.Context, key string) (int64, error) {
	if c.down {
		return 0, errCacheDown
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	var n int64
	fmt.Sscan(c.values[key], &n)
	n++
	c.values[key] = fmt.Sprint(n)
	return n, nil
}

func (c *fakeCache) Expire(_ context.Context, key string, expiration time.Duration) (bool, error) {
	if c.down {
		return false, errCacheDown
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ttl[key] = expiration
	return true, nil
}

// --- уведомления ---

type fakeNotificationRepo struct {
	items []entities.Notification
}

func (r *fakeNotificationRepo) Create(_ context.Context, _ pgx.Tx, n entities.Notification) (uint64, error) {
	n.ID = uint64(len(r.items) + 1)
	n.CreatedAt = fixedNow
	r.items = append(r.items, n)
	return n.ID, nil
}

func (r *fakeNotificationRepo) FindByID(_ context.Context, id uint64) (*entities.Notification, error) {
	for _, n := range r.items {
		if n.ID == id {
			cp := n
			return &cp, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (r *fakeNotificationRepo) GetAll(_ context.Context, filter types.Filter) ([]entities.Notification, uint64, error) {
	out := make([]entities.Notification, 0, len(r.items))
	for i := len(r.items) - 1; i >= 0; i-- {
		out = append(out, r.items[i])
	}
	total := uint64(len(out))
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, total, nil
}

func (r *fakeNotificationRepo) CountUnread(_ context.Context) (uint64, error) {
	var n uint64
	for _, item := range r.items {
		if !item.IsRead {
			n++
		}
	}
	return n, nil
}

func (r *fakeNotificationRepo) MarkRead(_ context.Context, id uint64) error {
	for i := range r.items {
		if r.items[i].ID == id {
			r.items[i].IsRead = true
			return nil
		}
	}
	return apperrors.ErrNotFound
}

func (r *fakeNotificationRepo) MarkAllRead(_ context.Context) (int64, error) {
	var n int64
	for i := range r.items {
		if !r.items[i].IsRead {
			r.items[i].IsRead = true
			n++
		}
	}
	return n, nil
}

func (r *fakeNotificationRepo) Delete(_ context.Context, id uint64) error {
	for i := range r.items {
		if r.items[i].ID == id {
			r.items = append(r.items[:i], r.items[i+1:]...)
			return nil
		}
	}
	return apperrors.ErrNotFound
}

// --- справочники ---

type fakeProjectRepo struct{ items []entities.Project }

func (r *fakeProjectRepo) FindByID(_ context.Context, _ pgx.Tx, id uint64) (*entities.Project, error) {
	for _, p := range r.items {
		if p.ID == id {
			cp := p
			return &cp, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (r *fakeProjectRepo) FindByName(_ context.Context, _ pgx.Tx, name string) (*entities.Project, error) {
	for _, p := range r.items {
		if strings.EqualFold(p.Name, name) {
			cp := p
			return &cp, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (r *fakeProjectRepo) GetAll(_ context.Context, _ types.Filter) ([]entities.Project, uint64, error) {
	return r.items, uint64(len(r.items)), nil
}

func (r *fakeProjectRepo) Create(_ context.Context, _ pgx.Tx, p entities.Project) (uint64, error) {
	p.ID = uint64(len(r.items) + 1)
	r.items = append(r.items, p)
	return p.ID, nil
}

func (r *fakeProjectRepo) Update(_ context.Context, _ pgx.Tx, id uint64, p entities.Project) error {
	for i := range r.items {
		if r.items[i].ID == id {
			p.ID = id
			r.items[i] = p
			return nil
		}
	}
	return apperrors.ErrNotFound
}

func (r *fakeProjectRepo) Delete(_ context.Context, _ pgx.Tx, id uint64) error {
	for i := range r.items {
		if r.items[i].ID == id {
			r.items = append(r.items[:i], r.items[i+1:]...)
			return nil
		}
	}
	return apperrors.ErrNotFound
}

type fakeCompanyRepo struct{ items []entities.Company }

func (r *fakeCompanyRepo) FindByID(_ context.Context, _ pgx.Tx, id uint64) (*entities.Company, error) {
	for _, c := range r.items {
		if c.ID == id {
			cp := c
			return &cp, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (r *fakeCompanyRepo) FindByName(_ context.Context, _ pgx.Tx, name string) (*entities.Company, error) {
	for _, c := range r.items {
		if strings.EqualFold(c.Name, name) {
			cp := c
			return &cp, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (r *fakeCompanyRepo) GetAll(_ context.Context, _ types.Filter) ([]entities.Company, uint64, error) {
	return r.items, uint64(len(r.items)), nil
}

func (r *fakeCompanyRepo) Create(_ context.Context, _ pgx.Tx, c entities.Company) (uint64, error) {
	c.ID = uint64(len(r.items) + 1)
	r.items = append(r.items, c)
	return c.ID, nil
}

func (r *fakeCompanyRepo) Update(_ context.Context, _ pgx.Tx, id uint64, c entities.Company) error {
	for i := range r.items {
		if r.items[i].ID == id {
			c.ID = id
			r.items[i] = c
			return nil
		}
	}
	return apperrors.ErrNotFound
}

func (r *fakeCompanyRepo) Delete(_ context.Context, _ pgx.Tx, id uint64) error {
	for i := range r.items {
		if r.items[i].ID == id {
			r.items = append(r.items[:i], r.items[i+1:]...)
			return nil
		}
	}
	return apperrors.ErrNotFound
}

// --- файлы ---

type fakeStorage struct {
	saved     map[string][]byte
	deleted   []string
	saveErr   error
	deleteErr error
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{saved: make(map[string][]byte)}
}

func (s *fakeStorage) Save(file io.Reader, originalFileName string, prefix string) (string, error) {
	if s.saveErr != nil {
		return "", s.saveErr
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, file); err != nil {
		return "", err
	}
	path := prefix + "/" + originalFileName
	s.saved[path] = buf.Bytes()
	return path, nil
}

func (s *fakeStorage) Delete(filePath string) error {
	s.deleted = append(s.deleted, filePath)
	if s.deleteErr != nil {
		return s.deleteErr
	}
	delete(s.saved, filePath)
	return nil
}

func (s *fakeStorage) PublicURL(filePath string) string {
	return "/uploads/" + filePath
}

// --- события и websocket ---

type recordingPublisher struct {
	mu     sync.Mutex
	events []eventbus.Event
}

func (p *recordingPublisher) Publish(_ context.Context, event eventbus.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
}

type mockWebSocketService struct {
	mock.Mock
}

func (m *mockWebSocketService) SendNotification(userID uint64, payload interface{}, messageType string) error {
	args := m.Called(userID, payload, messageType)
	return args.Error(0)
}

// fixedPosition - датчик, отдающий заданную точку или ошибку.
type fixedPosition struct {
	coord lifecycle.Coordinate
	err   error
}

func (p fixedPosition) Capture(_ context.Context) (lifecycle.Coordinate, error) {
	return p.coord, p.err
}
