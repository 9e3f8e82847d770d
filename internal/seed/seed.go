package seed

import (
	"bufio"
	"bytes"
	"context"
	"embed"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path"
	"strings"
	"time"

	"github.com/nc-news-api/internal/models"
	"github.com/nc-news-api/internal/repository"
	"github.com/nc-news-api/internal/validation"
	"github.com/rs/zerolog"
)

// Dataset file names, loaded in this order
const (
	TopicsFile   = "topics.csv"
	UsersFile    = "users.csv"
	ArticlesFile = "articles.ndjson"
	CommentsFile = "comments.ndjson"
)

// DefaultBatchSize is the number of rows sent per COPY
const DefaultBatchSize = 500

// Tables cleared before seeding, children first
var Tables = []string{"comments", "articles", "users", "topics"}

//go:embed data/*
var bundled embed.FS

// DefaultDataset returns the bundled development dataset
func DefaultDataset() fs.FS {
	sub, err := fs.Sub(bundled, "data")
	if err != nil {
		panic(err)
	}
	return sub
}

// Truncater clears tables before a reseed
type Truncater interface {
	Truncate(ctx context.Context, tables ...string) error
}

// RecordError describes a rejected record
type RecordError struct {
	Resource string      `json:"resource"`
	Line     int         `json:"line"`
	Field    string      `json:"field"`
	Message  string      `json:"message"`
	Value    interface{} `json:"value,omitempty"`
}

// ResourceReport summarizes the load of one dataset file
type ResourceReport struct {
	Resource        string        `json:"resource"`
	TotalRecords    int           `json:"total_records"`
	SuccessfulCount int           `json:"successful_count"`
	FailedCount     int           `json:"failed_count"`
	Duration        time.Duration `json:"duration"`
	RowsPerSec      float64       `json:"rows_per_sec"`
}

// Report is the outcome of a seeding run
type Report struct {
	Resources []ResourceReport `json:"resources"`
	Errors    []RecordError    `json:"errors,omitempty"`
}

// Failed returns the number of records that were not loaded
func (r *Report) Failed() int {
	failed := 0
	for _, res := range r.Resources {
		failed += res.FailedCount
	}
	return failed
}

// Seeder loads a dataset into the repositories
type Seeder struct {
	repos     *repository.Repositories
	truncater Truncater
	batchSize int
	log       zerolog.Logger
}

// New creates a seeder. truncater may be nil when tables are never cleared.
func New(repos *repository.Repositories, truncater Truncater, batchSize int, log zerolog.Logger) *Seeder {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &Seeder{
		repos:     repos,
		truncater: truncater,
		batchSize: batchSize,
		log:       log.With().Str("component", "seed").Logger(),
	}
}

// Run validates and inserts every file of data. With truncate set the
// tables are cleared first and their id sequences restarted. Invalid records
// are skipped and reported; missing files are skipped.
func (s *Seeder) Run(ctx context.Context, data fs.FS, truncate bool) (*Report, error) {
	if truncate {
		if s.truncater == nil {
			return nil, errors.New("seed: truncate requested without a database")
		}
		if err := s.truncater.Truncate(ctx, Tables...); err != nil {
			return nil, fmt.Errorf("failed to truncate tables: %w", err)
		}
		s.log.Info().Strs("tables", Tables).Msg("Tables truncated")
	}

	report := &Report{}
	validator := validation.NewValidator()

	steps := []struct {
		file string
		load func(context.Context, io.Reader, *validation.Validator, *ResourceReport, *[]RecordError) error
	}{
		{TopicsFile, s.loadTopics},
		{UsersFile, s.loadUsers},
		{ArticlesFile, s.loadArticles},
		{CommentsFile, s.loadComments},
	}

	for _, step := range steps {
		resource := strings.TrimSuffix(step.file, path.Ext(step.file))

		f, err := data.Open(step.file)
		if errors.Is(err, fs.ErrNotExist) {
			s.log.Warn().Str("file", step.file).Msg("Dataset file not found, skipping")
			continue
		}
		if err != nil {
			return report, fmt.Errorf("failed to open %s: %w", step.file, err)
		}

		res := ResourceReport{Resource: resource}
		start := time.Now()
		err = step.load(ctx, f, validator, &res, &report.Errors)
		f.Close()

		res.Duration = time.Since(start)
		if res.SuccessfulCount > 0 && res.Duration.Seconds() > 0 {
			res.RowsPerSec = float64(res.SuccessfulCount) / res.Duration.Seconds()
		}
		report.Resources = append(report.Resources, res)

		if err != nil {
			s.log.Error().Err(err).Str("resource", resource).Msg("Seeding failed")
			return report, fmt.Errorf("failed to seed %s: %w", resource, err)
		}

		s.log.Info().
			Str("resource", resource).
			Int("total", res.TotalRecords).
			Int("successful", res.SuccessfulCount).
			Int("failed", res.FailedCount).
			Dur("duration", res.Duration).
			Float64("rows_per_sec", res.RowsPerSec).
			Msg("Resource seeded")
	}

	return report, nil
}

func (s *Seeder) loadTopics(ctx context.Context, r io.Reader, v *validation.Validator, res *ResourceReport, errs *[]RecordError) error {
	var batch []*models.Topic
	err := readCSV(ctx, r, func(line int, get func(string) string) error {
		res.TotalRecords++
		topic := &models.Topic{Slug: get("slug"), Description: get("description")}
		if failed := v.ValidateTopic(topic); len(failed) > 0 {
			recordFailures(errs, res, "topics", line, failed)
			return nil
		}
		v.AddTopic(topic.Slug)
		batch = append(batch, topic)
		if len(batch) >= s.batchSize {
			if err := flush(ctx, s.repos.Topic.BatchInsert, batch, res); err != nil {
				return err
			}
			batch = batch[:0]
		}
		return nil
	})
	if err != nil {
		return err
	}
	return flush(ctx, s.repos.Topic.BatchInsert, batch, res)
}

func (s *Seeder) loadUsers(ctx context.Context, r io.Reader, v *validation.Validator, res *ResourceReport, errs *[]RecordError) error {
	var batch []*models.User
	err := readCSV(ctx, r, func(line int, get func(string) string) error {
		res.TotalRecords++
		row := &models.UserCSV{Username: get("username"), Name: get("name"), AvatarURL: get("avatar_url")}
		if failed := v.ValidateUser(row); len(failed) > 0 {
			recordFailures(errs, res, "users", line, failed)
			return nil
		}
		v.AddUser(row.Username)
		batch = append(batch, &models.User{Username: row.Username, Name: row.Name, AvatarURL: row.AvatarURL})
		if len(batch) >= s.batchSize {
			if err := flush(ctx, s.repos.User.BatchInsert, batch, res); err != nil {
				return err
			}
			batch = batch[:0]
		}
		return nil
	})
	if err != nil {
		return err
	}
	return flush(ctx, s.repos.User.BatchInsert, batch, res)
}

func (s *Seeder) loadArticles(ctx context.Context, r io.Reader, v *validation.Validator, res *ResourceReport, errs *[]RecordError) error {
	var batch []*models.Article
	err := readNDJSON(ctx, r, res, func(line int, raw []byte) error {
		var row models.ArticleNDJSON
		if err := json.Unmarshal(raw, &row); err != nil {
			recordFailures(errs, res, "articles", line, []validation.ValidationError{{Field: "json", Message: fmt.Sprintf("invalid JSON: %v", err)}})
			return nil
		}
		if failed := v.ValidateArticle(&row); len(failed) > 0 {
			recordFailures(errs, res, "articles", line, failed)
			return nil
		}
		v.AddArticle(row.ID)
		batch = append(batch, convertArticle(&row))
		if len(batch) >= s.batchSize {
			if err := flush(ctx, s.repos.Article.BatchInsert, batch, res); err != nil {
				return err
			}
			batch = batch[:0]
		}
		return nil
	})
	if err != nil {
		return err
	}
	return flush(ctx, s.repos.Article.BatchInsert, batch, res)
}

func (s *Seeder) loadComments(ctx context.Context, r io.Reader, v *validation.Validator, res *ResourceReport, errs *[]RecordError) error {
	var batch []*models.Comment
	err := readNDJSON(ctx, r, res, func(line int, raw []byte) error {
		var row models.CommentNDJSON
		if err := json.Unmarshal(raw, &row); err != nil {
			recordFailures(errs, res, "comments", line, []validation.ValidationError{{Field: "json", Message: fmt.Sprintf("invalid JSON: %v", err)}})
			return nil
		}
		if failed := v.ValidateComment(&row); len(failed) > 0 {
			recordFailures(errs, res, "comments", line, failed)
			return nil
		}
		v.AddComment(row.ID)
		batch = append(batch, convertComment(&row))
		if len(batch) >= s.batchSize {
			if err := flush(ctx, s.repos.Comment.BatchInsert, batch, res); err != nil {
				return err
			}
			batch = batch[:0]
		}
		return nil
	})
	if err != nil {
		return err
	}
	return flush(ctx, s.repos.Comment.BatchInsert, batch, res)
}

// flush inserts a batch and updates the resource counters
func flush[T any](ctx context.Context, insert func(context.Context, []T) (int, error), batch []T, res *ResourceReport) error {
	if len(batch) == 0 {
		return nil
	}
	inserted, err := insert(ctx, batch)
	if err != nil {
		res.FailedCount += len(batch)
		return err
	}
	res.SuccessfulCount += inserted
	res.FailedCount += len(batch) - inserted
	return nil
}

func recordFailures(errs *[]RecordError, res *ResourceReport, resource string, line int, failed []validation.ValidationError) {
	res.FailedCount++
	for _, e := range failed {
		*errs = append(*errs, RecordError{
			Resource: resource,
			Line:     line,
			Field:    e.Field,
			Message:  e.Message,
			Value:    e.Value,
		})
	}
}

// readCSV calls fn for every row after the header with a field accessor
// keyed by lower-cased header name
func readCSV(ctx context.Context, r io.Reader, fn func(line int, get func(string) string) error) error {
	reader := csv.NewReader(r)
	header, err := reader.Read()
	if err == io.EOF {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read header: %w", err)
	}

	headerMap := make(map[string]int, len(header))
	for i, h := range header {
		headerMap[strings.ToLower(strings.TrimSpace(h))] = i
	}

	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			return nil
		}
		line++
		if err != nil {
			return fmt.Errorf("line %d: %w", line, err)
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		get := func(field string) string {
			if idx, ok := headerMap[field]; ok && idx < len(record) {
				return strings.TrimSpace(record[idx])
			}
			return ""
		}
		if err := fn(line, get); err != nil {
			return err
		}
	}
}

// readNDJSON calls fn for every non-blank line
func readNDJSON(ctx context.Context, r io.Reader, res *ResourceReport, fn func(line int, raw []byte) error) error {
	scanner := bufio.NewScanner(r)
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 1024*1024)

	line := 0
	for scanner.Scan() {
		line++
		raw := scanner.Bytes()
		if len(bytes.TrimSpace(raw)) == 0 {
			continue
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		res.TotalRecords++
		if err := fn(line, raw); err != nil {
			return err
		}
	}
	return scanner.Err()
}

func convertArticle(row *models.ArticleNDJSON) *models.Article {
	createdAt, _ := time.Parse(time.RFC3339, row.CreatedAt)
	return &models.Article{
		ID:        row.ID,
		Title:     row.Title,
		Body:      row.Body,
		Author:    row.Author,
		Topic:     row.Topic,
		Votes:     row.Votes,
		CreatedAt: createdAt,
	}
}

func convertComment(row *models.CommentNDJSON) *models.Comment {
	createdAt, _ := time.Parse(time.RFC3339, row.CreatedAt)
	return &models.Comment{
		ID:        row.ID,
		ArticleID: row.ArticleID,
		Author:    row.Author,
		Body:      row.Body,
		Votes:     row.Votes,
		CreatedAt: createdAt,
	}
}
