// Package service is the capture pipeline: classify, complete, commit,
// route to review and fall back to raw emergency lines when all else fails
package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"capturebox/internal/core/document"
	"capturebox/internal/core/entry"
	"capturebox/internal/core/normalize"
	perr "capturebox/internal/platform/errors"
	"capturebox/internal/platform/logger"
	"capturebox/internal/services/capture/domain"
	classify "capturebox/internal/services/classify/domain"
	history "capturebox/internal/services/history/domain"
	reminders "capturebox/internal/services/reminders/domain"
	review "capturebox/internal/services/review/domain"
	trackers "capturebox/internal/services/trackers/domain"

	"github.com/google/uuid"
)

// Deps are the collaborators of the pipeline. History and Reminders may be nil.
type Deps struct {
	Classifier classify.Classifier
	Registry   trackers.RegistryPort
	Commit     trackers.CommitPort
	Review     review.QueuePort
	History    history.Recorder
	Reminders  reminders.Scheduler
}

// Service runs captures
type Service struct {
	d   Deps
	now func() time.Time
}

// New returns a Service
func New(d Deps) *Service {
	if d.Classifier == nil || d.Registry == nil || d.Commit == nil || d.Review == nil {
		panic("capture.Service requires a classifier, registry, commit port and review queue")
	}
	return &Service{d: d, now: time.Now}
}

// normalize cleans in and fills its defaults
func (s *Service) normalize(in domain.Input) domain.Input {
	in.Text = normalize.Text(in.Text)
	in.InputType = strings.ToLower(strings.TrimSpace(in.InputType))
	if in.InputType == "" {
		in.InputType = "text"
	}
	in.ForceContext = strings.TrimSpace(in.ForceContext)
	if in.Timestamp.IsZero() {
		in.Timestamp = s.now()
	}
	return in
}

// Capture runs one input through the pipeline. Nothing escapes as an
// error; an exhausted emergency chain is the only hard failure.
func (s *Service) Capture(ctx context.Context, in domain.Input) domain.Result {
	id := uuid.NewString()
	ctx = logger.WithCapture(ctx, id)
	log := logger.For(ctx, "capture")

	in = s.normalize(in)
	if in.Text == "" {
		return domain.Result{CaptureID: id, PrimaryTracker: domain.NoTracker, Error: perr.Validationf("nothing to capture").Error()}
	}

	res, err := s.classify(ctx, in)
	if err != nil {
		log.Error().Err(err).Msg("classification failed, emergency capture")
		return s.emergency(ctx, id, in, err)
	}

	if res.RequiresReview {
		return s.toReview(ctx, id, in, res)
	}

	out := domain.Result{
		CaptureID:      id,
		PrimaryTracker: res.PrimaryTracker,
		Confidence:     res.Confidence,
		ItemResults:    make([]domain.ItemResult, 0, len(res.Items)),
		CompletedTasks: make([]domain.CompletionResult, 0, len(res.CompletedTasks)),
	}

	for _, c := range res.CompletedTasks {
		ok := s.d.Commit.MarkComplete(ctx, c.Tracker, c.Description, in.Timestamp)
		if !ok {
			log.Warn().Str("tracker", c.Tracker).Str("task", c.Description).Msg("completion not applied")
		}
		out.CompletedTasks = append(out.CompletedTasks, domain.CompletionResult{Tracker: c.Tracker, Description: c.Description, Success: ok})
	}

	for _, it := range res.Items {
		ir := s.commitItem(ctx, id, in, it)
		out.ItemResults = append(out.ItemResults, ir)
		out.Success = out.Success || ir.Success
	}

	if !out.Success {
		cause := perr.Unavailablef("no item of the capture could be stored")
		out.Error = cause.Error()
		log.Error().Err(cause).Int("items", len(out.ItemResults)).Msg("commit failed")
		// the raw line keeps the text somewhere; the capture still failed
		if landed, ok := s.appendEmergency(ctx, in, cause); ok {
			log.Warn().Str("tracker", landed).Msg("raw copy of the failed capture stored")
		}
		return out
	}

	s.record(ctx, in, out, res)
	log.Info().Str("tracker", out.PrimaryTracker).Int("items", len(out.ItemResults)).
		Float64("confidence", out.Confidence).Msg("captured")
	return out
}

// classify calls the classifier and turns its panics into errors
func (s *Service) classify(ctx context.Context, in domain.Input) (res classify.Result, err error) {
	defer func() {
		if v := recover(); v != nil {
			err = perr.FromPanic(v)
		}
	}()
	return s.d.Classifier.Classify(ctx, classify.Input{
		Text:         in.Text,
		InputType:    in.InputType,
		ForceContext: in.ForceContext,
		Timestamp:    in.Timestamp,
	}, s.d.Registry.Context())
}

func (s *Service) commitItem(ctx context.Context, captureID string, in domain.Input, it classify.Item) domain.ItemResult {
	sec := document.SectionFor(it.ItemType)
	ir := domain.ItemResult{
		Tracker:        it.Tracker,
		Section:        string(sec),
		ItemType:       it.ItemType,
		Priority:       it.Priority,
		FormattedEntry: it.CanonicalText,
	}
	if it.ItemType == entry.Activity {
		ir.Success = s.d.Commit.AddActivity(ctx, it.Tracker, it.CanonicalText, in.Timestamp)
	} else {
		ir.Success = s.d.Commit.AddEntry(ctx, it.Tracker, string(sec), it.CanonicalText, time.Time{})
	}
	if !ir.Success {
		ir.Error = fmt.Sprintf("tracker %s did not store the entry", it.Tracker)
		return ir
	}

	if it.ItemType == entry.Action && it.TimeSensitive && s.d.Reminders != nil {
		err := s.schedule(ctx, reminders.Request{
			CaptureID:   captureID,
			Tracker:     it.Tracker,
			Description: it.Description,
			DueDate:     it.DueDate,
		})
		if err != nil {
			logger.For(ctx, "capture").Warn().Err(err).Str("tracker", it.Tracker).Msg("reminder not scheduled")
		}
		ir.ReminderScheduled = err == nil
	}
	return ir
}

// schedule calls the reminder scheduler and turns its panics into errors
func (s *Service) schedule(ctx context.Context, req reminders.Request) (err error) {
	defer func() {
		if v := recover(); v != nil {
			err = perr.FromPanic(v)
		}
	}()
	_, err = s.d.Reminders.Schedule(ctx, req)
	return err
}

// flag queues an item for review and turns queue panics into errors
func (s *Service) flag(ctx context.Context, req review.FlagRequest) (item review.Item, err error) {
	defer func() {
		if v := recover(); v != nil {
			err = perr.FromPanic(v)
		}
	}()
	return s.d.Review.FlagItemForReview(ctx, req)
}

// toReview queues the capture, or writes a REVIEW NEEDED entry down the
// review chain when the queue is unreachable
func (s *Service) toReview(ctx context.Context, id string, in domain.Input, res classify.Result) domain.Result {
	meta := review.Metadata{
		Keywords: res.Keywords,
		Urgency:  res.Priority,
		Type:     res.ItemType,
	}
	tracker := res.PrimaryTracker
	if len(res.Items) > 0 {
		first := res.Items[0]
		meta.Urgency, meta.Type, meta.Tags = first.Priority, first.ItemType, first.Tags
		tracker = first.Tracker
	}
	source := review.SourceInference
	if res.Fallback {
		source = review.SourceCapture
	}

	item, err := s.flag(ctx, review.FlagRequest{
		Content:    in.Text,
		Confidence: res.Confidence,
		Tracker:    tracker,
		Section:    string(document.SectionFor(meta.Type)),
		Source:     source,
		Metadata:   &meta,
	})
	if err == nil {
		return domain.Result{
			Success:        true,
			CaptureID:      id,
			PrimaryTracker: trackers.ReviewID,
			Confidence:     res.Confidence,
			RequiresReview: true,
			ReviewID:       item.ID,
			Error:          res.Error,
		}
	}

	logger.For(ctx, "capture").Warn().Err(err).Msg("review queue unavailable, writing review entry")
	line := entry.Format(entry.Review, "REVIEW NEEDED: "+normalize.Line(in.Text), entry.Options{
		Date:       in.Timestamp,
		Confidence: res.Confidence,
	})
	_, landed, ok := firstSuccess(reviewChain(), func(t string) bool {
		return s.d.Commit.AddToReview(ctx, t, line)
	})
	out := domain.Result{
		Success:        ok,
		CaptureID:      id,
		PrimaryTracker: landed,
		Confidence:     res.Confidence,
		RequiresReview: true,
		Error:          err.Error(),
	}
	if !ok {
		out.PrimaryTracker = domain.NoTracker
	}
	return out
}

// appendEmergency appends a raw line to the first tracker that takes it
func (s *Service) appendEmergency(ctx context.Context, in domain.Input, cause error) (string, bool) {
	line := fmt.Sprintf("- %s EMERGENCY CAPTURE: %s (error: %s)",
		entry.Stamp(in.Timestamp), normalize.Line(in.Text), normalize.Line(cause.Error()))

	attempts, landed, ok := firstSuccess(emergencyChain(s.d.Registry.List()), func(t string) bool {
		return s.d.Commit.AppendRaw(ctx, t, string(document.ReviewQueue), line)
	})
	if !ok {
		logger.For(ctx, "capture").Error().Err(cause).Int("attempts", len(attempts)).Msg("emergency capture exhausted")
	}
	return landed, ok
}

// emergency is the result of a capture whose classification failed
func (s *Service) emergency(ctx context.Context, id string, in domain.Input, cause error) domain.Result {
	landed, ok := s.appendEmergency(ctx, in, cause)
	if !ok {
		return domain.Result{
			CaptureID:      id,
			PrimaryTracker: domain.NoTracker,
			Confidence:     0,
			RequiresReview: true,
			Emergency:      true,
			Error:          cause.Error(),
		}
	}
	logger.For(ctx, "capture").Warn().Str("tracker", landed).Msg("emergency capture stored")
	return domain.Result{
		Success:        true,
		CaptureID:      id,
		PrimaryTracker: landed,
		Confidence:     0.1,
		RequiresReview: true,
		Emergency:      true,
		Error:          cause.Error(),
	}
}

// record writes the history event; failures stay in the log
func (s *Service) record(ctx context.Context, in domain.Input, out domain.Result, res classify.Result) {
	if s.d.History == nil {
		return
	}
	ev := history.Event{
		CaptureID:      out.CaptureID,
		At:             in.Timestamp,
		Text:           in.Text,
		InputType:      in.InputType,
		PrimaryTracker: out.PrimaryTracker,
		Confidence:     out.Confidence,
		RequiresReview: out.RequiresReview,
		Fallback:       res.Fallback,
	}
	for _, ir := range out.ItemResults {
		if ir.Success {
			ev.ItemTypes = append(ev.ItemTypes, string(ir.ItemType))
			ev.Trackers = append(ev.Trackers, ir.Tracker)
		}
	}
	_ = s.d.History.Record(ctx, ev)
}

// CaptureBatch captures each input in order. A panic in one input becomes
// that input's failed result.
func (s *Service) CaptureBatch(ctx context.Context, inputs []domain.Input) []domain.Result {
	out := make([]domain.Result, 0, len(inputs))
	for _, in := range inputs {
		out = append(out, s.captureSafe(ctx, in))
	}
	return out
}

func (s *Service) captureSafe(ctx context.Context, in domain.Input) (res domain.Result) {
	defer func() {
		if v := recover(); v != nil {
			err := perr.FromPanic(v)
			logger.For(ctx, "capture").Error().Err(err).Msg("capture panicked")
			res = domain.Result{PrimaryTracker: domain.NoTracker, Error: err.Error()}
		}
	}()
	return s.Capture(ctx, in)
}

// GetStatus counts trackers by context type and open review items
func (s *Service) GetStatus(ctx context.Context) (domain.Status, error) {
	counts := s.d.Registry.Counts()
	st := domain.Status{ByContextType: counts}
	for _, n := range counts {
		st.Trackers += n
	}
	items, err := s.d.Review.GetItemsNeedingReview(ctx, "")
	if err != nil {
		return st, err
	}
	st.PendingReview = len(items)
	return st, nil
}

// Refresh reloads trackers from their store
func (s *Service) Refresh(ctx context.Context) (domain.Status, error) {
	if err := s.d.Registry.Refresh(ctx); err != nil {
		return domain.Status{}, err
	}
	return s.GetStatus(ctx)
}
