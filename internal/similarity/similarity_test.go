package similarity

import (
	"context"
	"errors"
	"testing"

	"github.com/povarna/generative-ai-agents/synereval/internal/scorer"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeEmbedder maps each token to a fixed vector; unknown tokens get a vector of their own axis.
type fakeEmbedder struct {
	vectors map[string][]float64
	calls   int
	inputs  []string
	err     error
}

func (f *fakeEmbedder) Embed(_ context.Context, inputs []string) ([][]float64, error) {
	f.calls++
	f.inputs = append(f.inputs, inputs...)
	if f.err != nil {
		return nil, f.err
	}
	out := make([][]float64, len(inputs))
	for i, in := range inputs {
		if v, ok := f.vectors[in]; ok {
			out[i] = v
			continue
		}
		out[i] = []float64{0, 0, 0, 1}
	}
	return out, nil
}

func TestTokenize(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"Hola, Mundo!", []string{"hola", "mundo"}},
		{"  ", nil},
		{"Año 2024: éxito.", []string{"año", "2024", "éxito"}},
	}

	for _, tt := range tests {
		got := Tokenize(tt.in)
		if len(tt.want) == 0 {
			assert.Empty(t, got)
			continue
		}
		assert.Equal(t, tt.want, got)
	}
}

func TestLexicalScorer(t *testing.T) {
	s := NewLexicalScorer()

	tests := []struct {
		name       string
		candidates []string
		references []string
		wantF1     float64
		wantErr    bool
	}{
		{"identical", []string{"el gato negro"}, []string{"el gato negro"}, 1.0, false},
		{"disjoint", []string{"perro"}, []string{"gato"}, 0.0, false},
		{"half", []string{"gato perro"}, []string{"gato"}, 2.0 / 3.0, false},
		{"empty candidate", []string{""}, []string{"gato"}, 0.0, false},
		{"unequal", []string{"a", "b"}, []string{"a"}, 0, true},
		{"no pairs", nil, nil, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := s.Score(context.Background(), tt.candidates, tt.references)
			if tt.wantErr {
				require.False(t, res.OK())
				assert.Equal(t, scorer.KindInvalidInput, res.Err.Kind)
				return
			}
			require.True(t, res.OK())
			assert.InDelta(t, tt.wantF1, res.Value.F1, 1e-9)
		})
	}
}

func TestEmbeddingScorer_IdenticalTextsScoreOne(t *testing.T) {
	logger := zerolog.Nop()
	embedder := &fakeEmbedder{vectors: map[string][]float64{
		"la":     {1, 0, 0, 0},
		"tierra": {0, 1, 0, 0},
		"gira":   {0, 0, 1, 0},
	}}
	s := NewEmbeddingScorer(embedder, &logger)

	res := s.Score(context.Background(), []string{"La Tierra gira"}, []string{"la tierra gira"})
	require.True(t, res.OK())
	assert.InDelta(t, 1.0, res.Value.Precision, 1e-9)
	assert.InDelta(t, 1.0, res.Value.Recall, 1e-9)
	assert.InDelta(t, 1.0, res.Value.F1, 1e-9)
}

func TestEmbeddingScorer_BatchesUniqueTokens(t *testing.T) {
	logger := zerolog.Nop()
	embedder := &fakeEmbedder{}
	s := NewEmbeddingScorer(embedder, &logger)

	res := s.Score(context.Background(),
		[]string{"uno dos", "dos tres"},
		[]string{"uno", "tres"},
	)
	require.True(t, res.OK())
	assert.Equal(t, 1, embedder.calls)
	assert.ElementsMatch(t, []string{"uno", "dos", "tres"}, embedder.inputs)
}

func TestEmbeddingScorer_ValuesWithinUnitInterval(t *testing.T) {
	logger := zerolog.Nop()
	embedder := &fakeEmbedder{vectors: map[string][]float64{
		"norte": {1, 0, 0, 0},
		"sur":   {-1, 0, 0, 0},
	}}
	s := NewEmbeddingScorer(embedder, &logger)

	res := s.Score(context.Background(), []string{"norte"}, []string{"sur"})
	require.True(t, res.OK())
	for _, v := range []float64{res.Value.Precision, res.Value.Recall, res.Value.F1} {
		assert.GreaterOrEqual(t, v, 0.0)
		assert.LessOrEqual(t, v, 1.0)
	}
}

func TestEmbeddingScorer_Failures(t *testing.T) {
	logger := zerolog.Nop()

	res := NewEmbeddingScorer(&fakeEmbedder{err: errors.New("connection refused")}, &logger).
		Score(context.Background(), []string{"a"}, []string{"b"})
	require.False(t, res.OK())
	assert.Equal(t, scorer.KindUnavailable, res.Err.Kind)
	assert.Equal(t, EmbeddingName, res.Err.Scorer)

	res = NewEmbeddingScorer(&fakeEmbedder{}, &logger).
		Score(context.Background(), []string{"a"}, []string{"b", "c"})
	require.False(t, res.OK())
	assert.Equal(t, scorer.KindInvalidInput, res.Err.Kind)
}

func TestNew(t *testing.T) {
	logger := zerolog.Nop()

	s, err := New(BackendLexical, nil, &logger)
	require.NoError(t, err)
	assert.IsType(t, &LexicalScorer{}, s)

	s, err = New("", &fakeEmbedder{}, &logger)
	require.NoError(t, err)
	assert.IsType(t, &EmbeddingScorer{}, s)

	_, err = New(BackendEmbedding, nil, &logger)
	assert.Error(t, err)

	_, err = New("tfidf", nil, &logger)
	assert.Error(t, err)
}

func TestDefaultEmbeddingModel(t *testing.T) {
	assert.Equal(t, "paraphrase-multilingual", DefaultEmbeddingModel())
}
