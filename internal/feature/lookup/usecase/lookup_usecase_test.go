package usecase_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"snapshop_backend/internal/feature/lookup/domain/entity"
	"snapshop_backend/internal/feature/lookup/usecase"
)

// ErrAPI はモックと期待値の間で共有されるセンチネルエラーです。
var ErrAPI = errors.New("api error")

// mockAnnotator はAnnotatorインターフェースのモック実装です。
type mockAnnotator struct {
	AnnotateFunc  func(ctx context.Context, image []byte) (entity.Annotations, error)
	AnnotateCalls int
}

func (m *mockAnnotator) Annotate(ctx context.Context, image []byte) (entity.Annotations, error) {
	m.AnnotateCalls++
	if m.AnnotateFunc != nil {
		return m.AnnotateFunc(ctx, image)
	}
	return entity.Annotations{}, errors.New("AnnotateFunc is not implemented")
}

// mockSearcher はProductSearcherインターフェースのモック実装です。
type mockSearcher struct {
	SearchFunc  func(ctx context.Context, query string) ([]entity.MatchItem, error)
	SearchCalls int
	LastQuery   string
}

func (m *mockSearcher) Search(ctx context.Context, query string) ([]entity.MatchItem, error) {
	m.SearchCalls++
	m.LastQuery = query
	if m.SearchFunc != nil {
		return m.SearchFunc(ctx, query)
	}
	return nil, errors.New("SearchFunc is not implemented")
}

// mockSearchLog はSearchLogRepositoryインターフェースのモック実装です。
type mockSearchLog struct {
	CreateFunc func(ctx context.Context, log entity.SearchLog) error
	Entries    []entity.SearchLog
}

func (m *mockSearchLog) Create(ctx context.Context, log entity.SearchLog) error {
	m.Entries = append(m.Entries, log)
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, log)
	}
	return nil
}

// mockDescriber はDescriberインターフェースのモック実装です。
type mockDescriber struct {
	DescribeFunc func(ctx context.Context, image []byte) (string, error)
}

func (m *mockDescriber) Describe(ctx context.Context, image []byte) (string, error) {
	return m.DescribeFunc(ctx, image)
}

func nikeAnnotations(ctx context.Context, image []byte) (entity.Annotations, error) {
	return entity.Annotations{
		Logos:  []string{"Nike"},
		Labels: []string{"T-shirt", "Black"},
	}, nil
}

func TestLookupUsecase_Lookup(t *testing.T) {
	ctx := context.Background()
	image := []byte("fake-image-data")
	matches := []entity.MatchItem{{ID: "p1", Title: "Nike Tee", Price: "$25.00"}}

	testCases := []struct {
		name            string
		input           entity.LookupInput
		dryRun          bool
		annotateFunc    func(ctx context.Context, image []byte) (entity.Annotations, error)
		searchFunc      func(ctx context.Context, query string) ([]entity.MatchItem, error)
		expectedOutcome entity.Outcome
		expectedMatches []entity.MatchItem
		expectedQuery   string
		expectedSearch  int
		expectedNote    bool
		expectedErr     error
		expectedErrText string
	}{
		{
			name:            "success: matches returned",
			input:           entity.LookupInput{Image: image},
			annotateFunc:    nikeAnnotations,
			searchFunc:      func(ctx context.Context, query string) ([]entity.MatchItem, error) { return matches, nil },
			expectedOutcome: entity.OutcomeSearched,
			expectedMatches: matches,
			expectedQuery:   "Nike t-shirt black buy",
			expectedSearch:  1,
		},
		{
			name:            "success: search returns nil slice",
			input:           entity.LookupInput{Image: image},
			annotateFunc:    nikeAnnotations,
			searchFunc:      func(ctx context.Context, query string) ([]entity.MatchItem, error) { return nil, nil },
			expectedOutcome: entity.OutcomeSearched,
			expectedMatches: []entity.MatchItem{},
			expectedQuery:   "Nike t-shirt black buy",
			expectedSearch:  1,
		},
		{
			name:        "error: no image and no link",
			input:       entity.LookupInput{},
			expectedErr: usecase.ErrMissingInput,
		},
		{
			name:        "error: blank link only",
			input:       entity.LookupInput{VideoURL: "   "},
			expectedErr: usecase.ErrMissingInput,
		},
		{
			name:            "early exit: link only",
			input:           entity.LookupInput{VideoURL: "https://www.tiktok.com/@user/video/1"},
			expectedOutcome: entity.OutcomeLinkOnly,
			expectedMatches: []entity.MatchItem{},
			expectedNote:    true,
		},
		{
			name:        "error: image too large",
			input:       entity.LookupInput{Image: make([]byte, usecase.MaxImageSize+1)},
			expectedErr: usecase.ErrImageTooLarge,
		},
		{
			name:  "early exit: no brand or category",
			input: entity.LookupInput{Image: image},
			annotateFunc: func(ctx context.Context, image []byte) (entity.Annotations, error) {
				return entity.Annotations{Labels: []string{"Fashion design", "Red"}}, nil
			},
			expectedOutcome: entity.OutcomeNoQuery,
			expectedMatches: []entity.MatchItem{},
		},
		{
			name:            "early exit: dry run",
			input:           entity.LookupInput{Image: image},
			dryRun:          true,
			annotateFunc:    nikeAnnotations,
			expectedOutcome: entity.OutcomeDryRun,
			expectedMatches: []entity.MatchItem{},
		},
		{
			name:  "error: annotator fails",
			input: entity.LookupInput{Image: image},
			annotateFunc: func(ctx context.Context, image []byte) (entity.Annotations, error) {
				return entity.Annotations{}, ErrAPI
			},
			expectedErr: ErrAPI,
		},
		{
			name:            "error: search fails with underlying message",
			input:           entity.LookupInput{Image: image},
			annotateFunc:    nikeAnnotations,
			searchFunc:      func(ctx context.Context, query string) ([]entity.MatchItem, error) { return nil, errors.New("SERPAPI_API_KEY missing") },
			expectedSearch:  1,
			expectedErrText: "SERPAPI_API_KEY",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			annotator := &mockAnnotator{AnnotateFunc: tc.annotateFunc}
			searcher := &mockSearcher{SearchFunc: tc.searchFunc}
			uc := usecase.NewLookupUsecase(annotator, searcher, usecase.LookupOptions{DryRun: tc.dryRun})

			result, err := uc.Lookup(ctx, tc.input)

			if tc.expectedErr != nil || tc.expectedErrText != "" {
				require.Error(t, err)
				if tc.expectedErr != nil {
					assert.ErrorIs(t, err, tc.expectedErr)
				}
				if tc.expectedErrText != "" {
					assert.Contains(t, err.Error(), tc.expectedErrText)
				}
				assert.Equal(t, tc.expectedSearch, searcher.SearchCalls)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.expectedOutcome, result.Outcome)
			assert.Equal(t, tc.expectedMatches, result.Matches)
			assert.Equal(t, tc.expectedSearch, searcher.SearchCalls)
			if tc.expectedSearch > 0 {
				assert.Equal(t, tc.expectedQuery, searcher.LastQuery)
			}
			if tc.expectedNote {
				assert.Equal(t, usecase.LinkOnlyNote, result.Note)
				assert.Zero(t, annotator.AnnotateCalls)
			} else {
				assert.Empty(t, result.Note)
			}
			assert.Nil(t, result.Debug)
		})
	}
}

func TestLookupUsecase_Lookup_Debug(t *testing.T) {
	ctx := context.Background()
	annotator := &mockAnnotator{AnnotateFunc: nikeAnnotations}
	searcher := &mockSearcher{SearchFunc: func(ctx context.Context, query string) ([]entity.MatchItem, error) {
		return []entity.MatchItem{}, nil
	}}

	t.Run("debug payload carries query and attributes", func(t *testing.T) {
		uc := usecase.NewLookupUsecase(annotator, searcher, usecase.LookupOptions{})

		result, err := uc.Lookup(ctx, entity.LookupInput{Image: []byte("img"), Debug: true})
		require.NoError(t, err)
		require.NotNil(t, result.Debug)

		assert.Equal(t, "Nike t-shirt black buy", result.Debug.Query)
		assert.Equal(t, "Nike", result.Debug.Attributes.Brand)
		assert.Equal(t, "t-shirt", result.Debug.Attributes.Category)
		assert.Equal(t, []string{"Nike"}, result.Debug.Annotations.Logos)
		assert.Equal(t, entity.OutcomeSearched, result.Debug.Outcome)
		assert.Empty(t, result.Debug.Caption)
	})

	t.Run("caption included when describer succeeds", func(t *testing.T) {
		describer := &mockDescriber{DescribeFunc: func(ctx context.Context, image []byte) (string, error) {
			return "black nike tee", nil
		}}
		uc := usecase.NewLookupUsecase(annotator, searcher, usecase.LookupOptions{Describer: describer})

		result, err := uc.Lookup(ctx, entity.LookupInput{Image: []byte("img"), Debug: true})
		require.NoError(t, err)
		assert.Equal(t, "black nike tee", result.Debug.Caption)
	})

	t.Run("caption failure does not fail the request", func(t *testing.T) {
		describer := &mockDescriber{DescribeFunc: func(ctx context.Context, image []byte) (string, error) {
			return "", ErrAPI
		}}
		uc := usecase.NewLookupUsecase(annotator, searcher, usecase.LookupOptions{Describer: describer})

		result, err := uc.Lookup(ctx, entity.LookupInput{Image: []byte("img"), Debug: true})
		require.NoError(t, err)
		assert.Empty(t, result.Debug.Caption)
	})
}

func TestLookupUsecase_Lookup_RecordsSearchLog(t *testing.T) {
	ctx := context.Background()
	annotator := &mockAnnotator{AnnotateFunc: nikeAnnotations}
	searcher := &mockSearcher{SearchFunc: func(ctx context.Context, query string) ([]entity.MatchItem, error) {
		return []entity.MatchItem{{ID: "1"}, {ID: "2"}}, nil
	}}

	t.Run("entry written for completed lookup", func(t *testing.T) {
		logRepo := &mockSearchLog{}
		uc := usecase.NewLookupUsecase(annotator, searcher, usecase.LookupOptions{SearchLog: logRepo})

		_, err := uc.Lookup(ctx, entity.LookupInput{Image: []byte("img"), RequestID: "req-1"})
		require.NoError(t, err)

		require.Len(t, logRepo.Entries, 1)
		entry := logRepo.Entries[0]
		assert.NotEmpty(t, entry.ID)
		assert.Equal(t, "req-1", entry.RequestID)
		assert.Equal(t, "Nike t-shirt black buy", entry.Query)
		assert.Equal(t, 2, entry.MatchCount)
		assert.Equal(t, entity.OutcomeSearched, entry.Outcome)
	})

	failures := []struct {
		name          string
		annotateFunc  func(ctx context.Context, image []byte) (entity.Annotations, error)
		searchFunc    func(ctx context.Context, query string) ([]entity.MatchItem, error)
		expectedQuery string
		expectedBrand string
	}{
		{
			name: "annotator failure is recorded",
			annotateFunc: func(ctx context.Context, image []byte) (entity.Annotations, error) {
				return entity.Annotations{}, ErrAPI
			},
		},
		{
			name:         "search failure is recorded with the built query",
			annotateFunc: nikeAnnotations,
			searchFunc: func(ctx context.Context, query string) ([]entity.MatchItem, error) {
				return nil, ErrAPI
			},
			expectedQuery: "Nike t-shirt black buy",
			expectedBrand: "Nike",
		},
	}
	for _, tc := range failures {
		t.Run(tc.name, func(t *testing.T) {
			logRepo := &mockSearchLog{}
			uc := usecase.NewLookupUsecase(
				&mockAnnotator{AnnotateFunc: tc.annotateFunc},
				&mockSearcher{SearchFunc: tc.searchFunc},
				usecase.LookupOptions{SearchLog: logRepo},
			)

			_, err := uc.Lookup(ctx, entity.LookupInput{Image: []byte("img"), RequestID: "req-err"})
			require.ErrorIs(t, err, ErrAPI)

			require.Len(t, logRepo.Entries, 1)
			entry := logRepo.Entries[0]
			assert.Equal(t, entity.OutcomeError, entry.Outcome)
			assert.Equal(t, "req-err", entry.RequestID)
			assert.Equal(t, tc.expectedQuery, entry.Query)
			assert.Equal(t, tc.expectedBrand, entry.Brand)
			assert.Zero(t, entry.MatchCount)
		})
	}

	t.Run("too large image is not recorded", func(t *testing.T) {
		logRepo := &mockSearchLog{}
		uc := usecase.NewLookupUsecase(annotator, searcher, usecase.LookupOptions{SearchLog: logRepo})

		_, err := uc.Lookup(ctx, entity.LookupInput{Image: make([]byte, usecase.MaxImageSize+1)})
		require.ErrorIs(t, err, usecase.ErrImageTooLarge)
		assert.Empty(t, logRepo.Entries)
	})

	t.Run("log failure is ignored", func(t *testing.T) {
		logRepo := &mockSearchLog{CreateFunc: func(ctx context.Context, log entity.SearchLog) error {
			return ErrAPI
		}}
		uc := usecase.NewLookupUsecase(annotator, searcher, usecase.LookupOptions{SearchLog: logRepo})

		result, err := uc.Lookup(ctx, entity.LookupInput{Image: []byte("img")})
		require.NoError(t, err)
		assert.Len(t, result.Matches, 2)
	})

	t.Run("link only requests are not recorded", func(t *testing.T) {
		logRepo := &mockSearchLog{}
		uc := usecase.NewLookupUsecase(annotator, searcher, usecase.LookupOptions{SearchLog: logRepo})

		_, err := uc.Lookup(ctx, entity.LookupInput{VideoURL: "https://vm.tiktok.com/x"})
		require.NoError(t, err)
		assert.Empty(t, logRepo.Entries)
	})
}

func TestLinkOnlyNote_AsksForScreenshot(t *testing.T) {
	assert.True(t, strings.Contains(strings.ToLower(usecase.LinkOnlyNote), "screenshot"))
}

func TestLookupUsecase_Lookup_LogsTruncatedTexts(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	longText := strings.Repeat("NIKE ", 60)
	annotator := &mockAnnotator{AnnotateFunc: func(ctx context.Context, image []byte) (entity.Annotations, error) {
		return entity.Annotations{Logos: []string{"Nike"}, Texts: []string{longText}}, nil
	}}
	uc := usecase.NewLookupUsecase(annotator, &mockSearcher{}, usecase.LookupOptions{
		DryRun: true,
		Logger: zap.New(core),
	})

	_, err := uc.Lookup(context.Background(), entity.LookupInput{Image: []byte("img"), RequestID: "req-log"})
	require.NoError(t, err)

	entries := logs.FilterMessage("lookup completed").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "req-log", fields["request_id"])
	texts, ok := fields["texts"].(string)
	require.True(t, ok)
	assert.True(t, strings.HasSuffix(texts, "..."))
	assert.Less(t, len(texts), len(longText))
}
