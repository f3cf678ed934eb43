package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	dom "github.com/vladaframchuk/event-planning-app-sub001/internal/domain"
	"github.com/vladaframchuk/event-planning-app-sub001/internal/repo"

	"github.com/rs/zerolog"
)

// Exporter renders an event's plan (schedule, participants, board,
// poll results) to a file under dir.
type Exporter struct {
	exports repo.ExportRepo
	events  repo.EventRepo
	tasks   repo.TaskRepo
	polls   repo.PollRepo
	dir     string
	log     zerolog.Logger
}

// NewExporter returns a new Exporter.
func NewExporter(exports repo.ExportRepo, events repo.EventRepo, tasks repo.TaskRepo, polls repo.PollRepo, dir string, log zerolog.Logger) *Exporter {
	return &Exporter{
		exports: exports,
		events:  events,
		tasks:   tasks,
		polls:   polls,
		dir:     dir,
		log:     log.With().Str("component", "jobs.exporter").Logger(),
	}
}

// Process runs one export job to completion, recording the outcome on
// the job row.
func (e *Exporter) Process(ctx context.Context, jobID string) error {
	job, err := e.exports.GetByID(ctx, jobID)
	if err != nil {
		return fmt.Errorf("load export job %s: %w", jobID, err)
	}
	if job.Status != dom.ExportPending {
		e.log.Warn().Str("job_id", jobID).Str("status", job.Status).Msg("skipping non-pending export")
		return nil
	}
	if err := e.exports.MarkRunning(ctx, jobID); err != nil {
		return fmt.Errorf("mark running: %w", err)
	}

	path, err := e.render(ctx, job)
	if err != nil {
		if mErr := e.exports.MarkFailed(ctx, jobID, err.Error()); mErr != nil {
			e.log.Error().Err(mErr).Str("job_id", jobID).Msg("mark failed")
		}
		return fmt.Errorf("render export %s: %w", jobID, err)
	}
	if err := e.exports.MarkDone(ctx, jobID, path); err != nil {
		return fmt.Errorf("mark done: %w", err)
	}
	e.log.Info().Str("job_id", jobID).Str("file", path).Msg("export finished")
	return nil
}

func (e *Exporter) render(ctx context.Context, job dom.ExportJob) (string, error) {
	event, err := e.events.GetByID(ctx, job.EventID)
	if err != nil {
		return "", fmt.Errorf("load event: %w", err)
	}
	participants, err := e.events.ListParticipants(ctx, job.EventID)
	if err != nil {
		return "", fmt.Errorf("load participants: %w", err)
	}
	board, err := e.tasks.Board(ctx, job.EventID)
	if err != nil {
		return "", fmt.Errorf("load board: %w", err)
	}
	polls, err := e.polls.ListByEvent(ctx, job.EventID, 0)
	if err != nil {
		return "", fmt.Errorf("load polls: %w", err)
	}

	if err := os.MkdirAll(e.dir, 0o755); err != nil {
		return "", fmt.Errorf("export dir: %w", err)
	}
	path := filepath.Join(e.dir, job.ID+"."+job.Format)

	var data []byte
	switch job.Format {
	case dom.ExportFormatJSON:
		data, err = renderJSON(event, participants, board, polls)
	case dom.ExportFormatICS:
		data = renderICS(event, board.Tasks)
	default:
		return "", fmt.Errorf("unknown format %q", job.Format)
	}
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write export file: %w", err)
	}
	return path, nil
}

type exportPlan struct {
	Event        dom.Event         `json:"event"`
	Participants []dom.Participant `json:"participants"`
	Lists        []dom.TaskList    `json:"lists"`
	Tasks        []dom.Task        `json:"tasks"`
	Polls        []dom.Poll        `json:"polls"`
	GeneratedAt  time.Time         `json:"generated_at"`
}

func renderJSON(event dom.Event, participants []dom.Participant, board dom.Board, polls []dom.Poll) ([]byte, error) {
	plan := exportPlan{
		Event:        event,
		Participants: participants,
		Lists:        board.Lists,
		Tasks:        board.Tasks,
		Polls:        polls,
		GeneratedAt:  time.Now().UTC(),
	}
	return json.MarshalIndent(plan, "", "  ")
}

// renderICS emits a VCALENDAR with the event itself and a VTODO per
// task that has a due date.
func renderICS(event dom.Event, tasks []dom.Task) []byte {
	var b strings.Builder
	now := time.Now().UTC().Format(icsTimeLayout)

	line := func(parts ...string) {
		b.WriteString(strings.Join(parts, ""))
		b.WriteString("\r\n")
	}

	line("BEGIN:VCALENDAR")
	line("VERSION:2.0")
	line("PRODID:-//planner//event-export//EN")

	line("BEGIN:VEVENT")
	line("UID:event-", fmt.Sprint(event.ID), "@planner")
	line("DTSTAMP:", now)
	line("DTSTART:", event.StartsAt.UTC().Format(icsTimeLayout))
	if event.EndsAt != nil {
		line("DTEND:", event.EndsAt.UTC().Format(icsTimeLayout))
	}
	line("SUMMARY:", icsEscape(event.Title))
	if event.Location != "" {
		line("LOCATION:", icsEscape(event.Location))
	}
	if event.Description != "" {
		line("DESCRIPTION:", icsEscape(event.Description))
	}
	line("END:VEVENT")

	for _, t := range tasks {
		if t.DueAt == nil {
			continue
		}
		line("BEGIN:VTODO")
		line("UID:task-", fmt.Sprint(t.ID), "@planner")
		line("DTSTAMP:", now)
		line("DUE:", t.DueAt.UTC().Format(icsTimeLayout))
		line("SUMMARY:", icsEscape(t.Title))
		if t.IsDone {
			line("STATUS:COMPLETED")
		}
		line("END:VTODO")
	}

	line("END:VCALENDAR")
	return []byte(b.String())
}

const icsTimeLayout = "20060102T150405Z"

func icsEscape(s string) string {
	r := strings.NewReplacer("\\", "\\\\", ";", "\\;", ",", "\\,", "\n", "\\n", "\r", "")
	return r.Replace(s)
}
