package practice

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/snonux/swarsense/internal/align"
	"codeberg.org/snonux/swarsense/internal/feedback"
	"codeberg.org/snonux/swarsense/internal/phoneme"
	"codeberg.org/snonux/swarsense/internal/speech"
	"codeberg.org/snonux/swarsense/internal/testutil"
)

type fakeRecorder struct {
	mu     sync.Mutex
	scores []int
	failed int
}

func (r *fakeRecorder) RecordScore(ctx context.Context, score int, failed bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if failed {
		r.failed++
		return
	}
	r.scores = append(r.scores, score)
}

func newTestCoach(t *testing.T, opts ...Option) *Coach {
	t.Helper()
	dict, err := phoneme.ParseCMU(strings.NewReader(testutil.SampleDictionary))
	require.NoError(t, err)
	return NewCoach(phoneme.NewLookup(dict), opts...)
}

func TestCompare(t *testing.T) {
	c := newTestCoach(t)

	tests := []struct {
		name      string
		target    string
		spoken    string
		score     int
		bucket    string
		tips      []string
		isCorrect bool
	}{
		{
			name:      "identical word",
			target:    "hello",
			spoken:    "hello",
			score:     100,
			bucket:    feedback.LabelExcellent,
			tips:      []string{feedback.GreatMatchTip},
			isCorrect: true,
		},
		{
			name:      "homophone",
			target:    "Hello",
			spoken:    " HULLO ",
			score:     100,
			bucket:    feedback.LabelExcellent,
			tips:      []string{feedback.GreatMatchTip},
			isCorrect: true,
		},
		{
			name:   "vowel substitution",
			target: "cat",
			spoken: "cut",
			score:  67,
			bucket: feedback.LabelNeedsImprovement,
			tips:   []string{"replace AH1 with AE1"},
		},
		{
			name:   "two substitutions",
			target: "hello",
			spoken: "hallo",
			score:  50,
			bucket: feedback.LabelNeedsImprovement,
			tips:   []string{"replace AA1 with AH0", "replace OW0 with OW1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := c.Compare(tt.target, tt.spoken)

			assert.False(t, a.Failed())
			assert.Equal(t, tt.score, a.Score())
			assert.Equal(t, tt.bucket, a.Feedback.Bucket)
			assert.Equal(t, tt.tips, a.Feedback.Tips)
			assert.Equal(t, tt.isCorrect, a.IsCorrect)
			assert.Equal(t, tt.target, a.Target)
			assert.Equal(t, tt.spoken, a.Spoken)
		})
	}
}

func TestCompare_LookupFailures(t *testing.T) {
	c := newTestCoach(t)

	tests := []struct {
		name   string
		target string
		spoken string
		want   string
	}{
		{"unknown target", "xyzzyqq", "hello", "could not find phonemes for target word 'xyzzyqq'"},
		{"unknown spoken", "hello", "xyzzyqq", "could not find phonemes for spoken word 'xyzzyqq'"},
		{"target reported first", "xyzzyqq", "qqq", "could not find phonemes for target word 'xyzzyqq'"},
		{"empty target", "", "hello", "could not find phonemes for target word ''"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := c.Compare(tt.target, tt.spoken)

			assert.True(t, a.Failed())
			assert.Equal(t, tt.want, a.Result.Err)
			assert.Equal(t, 0, a.Score())
			assert.Zero(t, a.Result.Ratio)
			assert.Empty(t, a.Result.Ops)
			assert.Equal(t, []string{tt.want}, a.Feedback.Tips)
			assert.Equal(t, feedback.LabelSignificant, a.Feedback.Bucket)
			assert.False(t, a.IsCorrect)
		})
	}
}

func TestCompare_Options(t *testing.T) {
	rec := &fakeRecorder{}
	c := newTestCoach(t,
		WithMinCorrectScore(60),
		WithFormatter(feedback.NewFormatter(feedback.Thresholds{Excellent: 95, Good: 65, Fair: 55, NeedsImprovement: 40})),
		WithScoreRecorder(rec),
	)

	a := c.Compare("cat", "cut")
	assert.True(t, a.IsCorrect)
	assert.Equal(t, feedback.LabelGood, a.Feedback.Bucket)

	c.Compare("cat", "xyzzyqq")
	assert.Equal(t, []int{67}, rec.scores)
	assert.Equal(t, 1, rec.failed)
}

func TestCompare_Idempotent(t *testing.T) {
	c := newTestCoach(t)
	assert.Equal(t, c.Compare("tomato", "hello"), c.Compare("tomato", "hello"))
}

func TestCompareAll(t *testing.T) {
	rec := &fakeRecorder{}
	c := newTestCoach(t, WithConcurrency(2), WithScoreRecorder(rec))

	pairs := []Pair{
		{"hello", "hello"},
		{"cat", "cut"},
		{"xyzzyqq", "hello"},
		{"tomato", "tomato"},
		{"practice", "cat"},
	}
	results, err := c.CompareAll(context.Background(), pairs)
	require.NoError(t, err)
	require.Len(t, results, len(pairs))

	for i, p := range pairs {
		assert.Equal(t, p.Target, results[i].Target)
		assert.Equal(t, c.Compare(p.Target, p.Spoken), results[i])
	}
	assert.Len(t, rec.scores, 8)
	assert.Equal(t, 2, rec.failed)
}

func TestCompareAll_Cancelled(t *testing.T) {
	c := newTestCoach(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.CompareAll(ctx, []Pair{{"hello", "hello"}})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPractice(t *testing.T) {
	dir := t.TempDir()
	tr := &testutil.MockTranscriber{Transcripts: map[string]string{
		"clean.wav":  "Hello!",
		"phrase.wav": "I said hallo",
		"noise.wav":  "...",
	}}
	c := newTestCoach(t, WithTranscriber(tr))

	a, err := c.Practice(context.Background(), "hello", testutil.CreateTestRecording(t, dir, "clean.wav"))
	require.NoError(t, err)
	assert.Equal(t, "Hello!", a.Transcript)
	assert.Equal(t, "hello", a.Spoken)
	assert.Equal(t, 100, a.Score())

	a, err = c.Practice(context.Background(), "hello", testutil.CreateTestRecording(t, dir, "phrase.wav"))
	require.NoError(t, err)
	assert.Equal(t, "hallo", a.Spoken)
	assert.Equal(t, 50, a.Score())
	assert.Equal(t, "I said hallo", a.Transcript)

	_, err = c.Practice(context.Background(), "hello", testutil.CreateTestRecording(t, dir, "noise.wav"))
	assert.ErrorIs(t, err, speech.ErrNoSpeech)
}

func TestPractice_Errors(t *testing.T) {
	_, err := newTestCoach(t).Practice(context.Background(), "hello", "a.wav")
	assert.ErrorIs(t, err, ErrNoTranscriber)

	apiErr := errors.New("rate limited")
	tr := &testutil.MockTranscriber{Errors: map[string]error{"a.wav": apiErr}}
	_, err = newTestCoach(t, WithTranscriber(tr)).Practice(context.Background(), "hello", "a.wav")
	assert.ErrorIs(t, err, apiErr)
}

func TestSay(t *testing.T) {
	out := filepath.Join(testutil.CreateTestDirectory(t), "output", "hello.mp3")

	err := newTestCoach(t).Say(context.Background(), "hello", out)
	assert.ErrorIs(t, err, ErrNoSpeaker)

	sp := &testutil.MockSpeaker{}
	require.NoError(t, newTestCoach(t, WithSpeaker(sp)).Say(context.Background(), "hello", out))
	testutil.AssertFileExists(t, out)
	assert.Equal(t, []string{"SPEAK hello -> hello.mp3"}, sp.Calls)

	ttsErr := errors.New("quota exceeded")
	sp = &testutil.MockSpeaker{Errors: map[string]error{"hello": ttsErr}}
	err = newTestCoach(t, WithSpeaker(sp)).Say(context.Background(), "hello", out)
	assert.ErrorIs(t, err, ttsErr)
	assert.Contains(t, err.Error(), "mock")
}

func TestExplain(t *testing.T) {
	c := newTestCoach(t)
	_, err := c.Explain(context.Background(), c.Compare("cat", "cut"))
	assert.ErrorIs(t, err, ErrNoExplainer)

	ex := &testutil.MockExplainer{Advice: "open the jaw"}
	c = newTestCoach(t, WithExplainer(ex))

	advice, err := c.Explain(context.Background(), c.Compare("cat", "cut"))
	require.NoError(t, err)
	assert.Equal(t, "open the jaw", advice)

	require.Len(t, ex.Requests, 1)
	req := ex.Requests[0]
	assert.Equal(t, "cat", req.Target)
	assert.Equal(t, "K AE1 T", req.TargetPhonemes.String())
	assert.Equal(t, "K AH1 T", req.SpokenPhonemes.String())
	assert.Equal(t, []align.EditOp{{Kind: align.Replace, Target: "AE1", Spoken: "AH1"}}, req.Differences)

	_, err = c.Explain(context.Background(), c.Compare("xyzzyqq", "cat"))
	assert.Error(t, err)
	assert.Len(t, ex.Requests, 1)
}
