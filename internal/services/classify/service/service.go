// Package service validates untrusted classification replies into a closed
// Result and fails open to review when the inference call goes wrong
package service

import (
	"context"
	"strings"
	"time"

	"capturebox/internal/core/entry"
	"capturebox/internal/core/normalize"
	perr "capturebox/internal/platform/errors"
	"capturebox/internal/platform/logger"
	"capturebox/internal/services/classify/domain"
	trackers "capturebox/internal/services/trackers/domain"
)

// FallbackConfidence is the confidence of synthetic fail-open results
const FallbackConfidence = 0.1

// DefaultThreshold replaces thresholds outside [0, 1]
const DefaultThreshold = 0.7

// Config tunes validation
type Config struct {
	// Threshold below which a result requires review. 0 sends nothing
	// to review unless the reply asks for it.
	Threshold float64
	// InboxID is the primary tracker when the reply names no known tracker
	InboxID string
	Timeout time.Duration
	// FailOpen turns inference failures into review results; when false
	// they are returned as Unavailable errors
	FailOpen bool
}

// Service implements domain.Classifier
type Service struct {
	port domain.InferencePort
	cfg  Config
	now  func() time.Time
}

var _ domain.Classifier = (*Service)(nil)

// New returns a Service calling port
func New(port domain.InferencePort, cfg Config) *Service {
	if port == nil {
		panic("classify.Service requires an inference port")
	}
	if cfg.Threshold < 0 || cfg.Threshold > 1 {
		cfg.Threshold = DefaultThreshold
	}
	if cfg.InboxID == "" {
		cfg.InboxID = trackers.InboxID
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 20 * time.Second
	}
	return &Service{port: port, cfg: cfg, now: time.Now}
}

// Classify sends in to the inference port and validates the reply against
// the known trackers
func (s *Service) Classify(ctx context.Context, in domain.Input, known map[string]trackers.ContextEntry) (res domain.Result, err error) {
	if in.Timestamp.IsZero() {
		in.Timestamp = s.now()
	}
	log := logger.For(ctx, "classify")

	defer func() {
		if v := recover(); v != nil {
			res, err = s.failed(in, known, perr.FromPanic(v))
		}
	}()

	cctx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	raw, cerr := s.port.Classify(cctx, domain.Request{Input: in, Trackers: known})
	if cerr != nil {
		return s.failed(in, known, perr.Wrap(cerr, perr.ErrorCodeUnavailable, "inference call"))
	}
	r, derr := decodeReply(raw)
	if derr != nil {
		log.Debug().Err(derr).Int("bytes", len(raw)).Msg("unparseable reply")
		return s.failed(in, known, derr)
	}
	return s.validate(ctx, r, in, known), nil
}

// failed builds the fail-open result, or returns err when fail-open is off
func (s *Service) failed(in domain.Input, known map[string]trackers.ContextEntry, cause error) (domain.Result, error) {
	if !s.cfg.FailOpen {
		return domain.Result{}, cause
	}
	logger.Named("classify").Warn().Err(cause).Msg("classification failed, routing to review")

	tracker := s.cfg.InboxID
	if id, ok := lookup(known, in.ForceContext); ok {
		tracker = id
	}
	desc := normalize.Line(in.Text)
	return domain.Result{
		PrimaryTracker: tracker,
		Confidence:     FallbackConfidence,
		RequiresReview: true,
		ItemType:       entry.Review,
		Priority:       entry.Medium,
		Items: []domain.Item{{
			Tracker:       tracker,
			ItemType:      entry.Review,
			Priority:      entry.Medium,
			Description:   desc,
			CanonicalText: entry.Format(entry.Review, desc, entry.Options{Date: in.Timestamp, Confidence: FallbackConfidence}),
		}},
		Fallback: true,
		Error:    cause.Error(),
	}, nil
}

// lookup matches id against the known tracker ids, case insensitive
func lookup(known map[string]trackers.ContextEntry, id string) (string, bool) {
	id = strings.ToLower(strings.TrimSpace(id))
	if id == "" {
		return "", false
	}
	if _, ok := known[id]; ok {
		return id, true
	}
	for k := range known {
		if strings.EqualFold(k, id) {
			return k, true
		}
	}
	return "", false
}

// validate coerces every field of r; nothing in r can make it fail
func (s *Service) validate(ctx context.Context, r reply, in domain.Input, known map[string]trackers.ContextEntry) domain.Result {
	log := logger.For(ctx, "classify")
	coerced := func(field, got string) {
		log.Debug().Str("field", field).Str("value", got).Msg("coerced invalid reply field")
	}

	res := domain.Result{
		Confidence: 0.5,
		ItemType:   entry.Review,
		Priority:   entry.Medium,
		Keywords:   r.strs("keywords"),
		Reasoning:  r.str("reasoning"),
	}
	if c, ok := r.num("confidence"); ok {
		res.Confidence = min(max(c, 0), 1)
	} else {
		coerced("confidence", r.str("confidence"))
	}
	if t, ok := entry.ParseItemType(r.str("item_type")); ok {
		res.ItemType = t
	} else if v := r.str("item_type"); v != "" {
		coerced("item_type", v)
	}
	if p, ok := entry.ParsePriority(r.str("priority")); ok {
		res.Priority = p
	} else if v := r.str("priority"); v != "" {
		coerced("priority", v)
	}

	forced, isForced := lookup(known, in.ForceContext)

	primary, ok := lookup(known, r.str("primary_tracker"))
	if !ok {
		for _, it := range r.objs("items") {
			if id, ok := lookup(known, it.str("tracker")); ok {
				primary = id
				break
			}
		}
	}
	if primary == "" {
		primary = s.cfg.InboxID
	}
	if isForced {
		primary = forced
	}
	res.PrimaryTracker = primary

	for _, it := range r.objs("items") {
		item := s.item(it, res, in, known)
		if isForced {
			item.Tracker = forced
		}
		res.Items = append(res.Items, item)
	}
	if len(res.Items) == 0 {
		desc := normalize.Line(in.Text)
		res.Items = []domain.Item{{
			Tracker:       primary,
			ItemType:      res.ItemType,
			Priority:      res.Priority,
			Description:   desc,
			CanonicalText: s.format(res.ItemType, desc, res.Priority, primary, nil, time.Time{}, in, res.Confidence),
		}}
	}

	for _, c := range r.objs("completed_tasks") {
		id, ok := lookup(known, c.str("tracker"))
		desc := normalize.Line(c.str("description"))
		if !ok || desc == "" {
			coerced("completed_tasks.tracker", c.str("tracker"))
			continue
		}
		res.CompletedTasks = append(res.CompletedTasks, domain.Completion{Tracker: id, Description: desc})
	}

	res.RequiresReview = r.flag("requires_review") || res.Confidence < s.cfg.Threshold
	return res
}

func (s *Service) item(it reply, res domain.Result, in domain.Input, known map[string]trackers.ContextEntry) domain.Item {
	out := domain.Item{
		Tracker:       res.PrimaryTracker,
		ItemType:      res.ItemType,
		Priority:      res.Priority,
		TimeSensitive: it.flag("time_sensitive"),
	}
	if id, ok := lookup(known, it.str("tracker")); ok {
		out.Tracker = id
	}
	if v := it.str("item_type"); v != "" {
		out.ItemType = entry.Review
		if t, ok := entry.ParseItemType(v); ok {
			out.ItemType = t
		}
	}
	if v := it.str("priority"); v != "" {
		out.Priority = entry.Medium
		if p, ok := entry.ParsePriority(v); ok {
			out.Priority = p
		}
	}
	if d, ok := it.date("due_date", in.Timestamp.Location()); ok {
		out.DueDate = d
	}
	for _, tag := range it.strs("tags") {
		out.Tags = append(out.Tags, entry.NormalizeTag(tag))
	}

	out.Description = normalize.Line(it.str("description"))
	if out.Description == "" {
		out.Description = normalize.Line(in.Text)
	}
	out.CanonicalText = s.format(out.ItemType, out.Description, out.Priority, out.Tracker, out.Tags, out.DueDate, in, res.Confidence)
	return out
}

// format renders the canonical entry; the first tag wins, else the tracker id
func (s *Service) format(t entry.ItemType, desc string, p entry.Priority, tracker string, tags []string, due time.Time, in domain.Input, conf float64) string {
	tag := tracker
	if len(tags) > 0 {
		tag = tags[0]
	}
	text := entry.Format(t, desc, entry.Options{
		Tag: tag, Priority: p, DueDate: due, Date: in.Timestamp, Confidence: conf,
	})
	if v := entry.Validate(text, t); !v.IsValid {
		logger.Named("classify").Debug().Strs("issues", v.Issues).Str("entry", text).Msg("canonical entry off shape")
	}
	return text
}
