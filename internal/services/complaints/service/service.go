// Package service implements the complaint intake gateway
package service

import (
	"context"
	"time"

	"zhkh/internal/core/category"
	"zhkh/internal/core/classify"
	"zhkh/internal/core/normalize"
	"zhkh/internal/core/template"
	"zhkh/internal/modkit/repokit"
	perr "zhkh/internal/platform/errors"
	"zhkh/internal/platform/logger"

	dom "zhkh/internal/services/complaints/domain"
	"zhkh/internal/services/complaints/repo"
)

// Generic messages that cross the wire; causes stay in the log
const (
	MsgSubmitFailed = "Ошибка обработки жалобы"
	MsgListFailed   = "Ошибка получения жалоб"
	MsgMarkFailed   = "Ошибка обновления жалобы"
)

// Recorder receives intake outcomes, metrics.Metrics satisfies it
type Recorder interface {
	Submitted(outcome string)
	Processed()
}

type nopRecorder struct{}

func (nopRecorder) Submitted(string) {}
func (nopRecorder) Processed()       {}

// Option configures the service
type Option func(*Svc)

// WithEvents sets the classification event sink
func WithEvents(s dom.EventSink) Option {
	return func(v *Svc) {
		if s != nil {
			v.events = s
		}
	}
}

// WithRecorder sets the outcome recorder
func WithRecorder(r Recorder) Option {
	return func(v *Svc) {
		if r != nil {
			v.rec = r
		}
	}
}

// WithClock overrides time.Now, tests pin created_at with it
func WithClock(now func() time.Time) Option {
	return func(v *Svc) {
		if now != nil {
			v.now = now
		}
	}
}

// Svc implements dom.ServicePort and dom.SchemaPort
type Svc struct {
	db     repokit.TxRunner
	binder repokit.Binder[repo.Storage]
	repo   repo.Storage
	cls    classify.Classifier

	events dom.EventSink
	rec    Recorder
	now    func() time.Time
}

var (
	_ dom.ServicePort = (*Svc)(nil)
	_ dom.SchemaPort  = (*Svc)(nil)
)

// New constructs the service over db; cls should never fail, wrap it in classify.Fallback
func New(db repokit.TxRunner, b repokit.Binder[repo.Storage], cls classify.Classifier, opts ...Option) *Svc {
	s := &Svc{
		db:     db,
		binder: b,
		repo:   repokit.MustBind(b, db),
		cls:    cls,
		events: repo.NopEvents{},
		rec:    nopRecorder{},
		now:    time.Now,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// insertAttempts bounds retries on lock contention
const insertAttempts = 3

func (s *Svc) insert(ctx context.Context, nc dom.NewComplaint) (int64, error) {
	var (
		id  int64
		err error
	)
	for i := range insertAttempts {
		id, err = s.repo.Insert(ctx, nc)
		if err == nil || !perr.Retryable(err) || ctx.Err() != nil {
			return id, err
		}
		logger.C(ctx).Debug().Err(err).Int("attempt", i+1).Msg("insert contended, retrying")
		time.Sleep(time.Duration(i+1) * 20 * time.Millisecond)
	}
	return id, err
}

// EnsureSchema implements dom.SchemaPort
func (s *Svc) EnsureSchema(ctx context.Context) error {
	return repokit.WithTx(ctx, s.db, s.binder, func(r repo.Storage) error {
		return r.EnsureSchema(ctx)
	})
}

// Submit validates, classifies and stores one complaint
func (s *Svc) Submit(ctx context.Context, text string) (dom.Ack, error) {
	log := logger.C(ctx)

	if !template.Validate(text) {
		s.rec.Submitted("invalid")
		return dom.Ack{}, perr.WithField(perr.Validationf("%s", template.Message), "text")
	}

	res, err := s.cls.Classify(ctx, text)
	if err != nil {
		// Fallback never gets here; a bare strategy might
		log.Warn().Err(err).Msg("classification failed, filing as other")
		res = classify.Result{Category: category.Other, Address: classify.Address(text), Strategy: classify.StrategyRules}
	}

	nc := dom.NewComplaint{
		Text:      normalize.Sanitize(text),
		Address:   normalize.Sanitize(res.Address),
		Category:  res.Category,
		CreatedAt: s.now().UTC(),
	}
	id, err := s.insert(ctx, nc)
	if err != nil {
		log.Error().Err(err).Msg("complaint insert failed")
		s.rec.Submitted("failed")
		return dom.Ack{}, perr.Wrap(err, perr.ErrorCodeDB, MsgSubmitFailed)
	}

	if err := s.events.Record(ctx, dom.Event{
		ComplaintID: id,
		Category:    nc.Category,
		Strategy:    string(res.Strategy),
		At:          nc.CreatedAt,
	}); err != nil {
		log.Warn().Err(err).Int64("id", id).Msg("classification event dropped")
	}

	s.rec.Submitted("accepted")
	log.Info().
		Int64("id", id).
		Str("category", nc.Category.String()).
		Str("strategy", string(res.Strategy)).
		Msg("complaint accepted")

	return dom.Ack{
		Status:   dom.StatusSuccess,
		ID:       id,
		Category: nc.Category,
		Address:  nc.Address,
	}, nil
}

// ListUnprocessed returns open complaints in four buckets
func (s *Svc) ListUnprocessed(ctx context.Context) (dom.Listing, error) {
	rows, err := s.repo.ListUnprocessed(ctx)
	if err != nil {
		logger.C(ctx).Error().Err(err).Msg("complaint list failed")
		return nil, perr.Wrap(err, perr.ErrorCodeDB, MsgListFailed)
	}
	out := dom.NewListing()
	for _, c := range rows {
		out.Add(c)
	}
	return out, nil
}

// MarkProcessed flips a complaint to processed; repeating it is a no-op success
func (s *Svc) MarkProcessed(ctx context.Context, id int64) error {
	if id <= 0 {
		return perr.WithField(perr.Validationf("id must be positive"), "id")
	}
	err := s.repo.MarkProcessed(ctx, id)
	switch {
	case err == nil:
		s.rec.Processed()
		return nil
	case perr.IsCode(err, perr.ErrorCodeNotFound):
		return err
	default:
		logger.C(ctx).Error().Err(err).Int64("id", id).Msg("mark processed failed")
		return perr.Wrap(err, perr.ErrorCodeDB, MsgMarkFailed)
	}
}
