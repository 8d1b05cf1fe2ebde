package semantic

import (
	"math"
	"strings"
	"time"

	"github.com/poiesic/recall/core"
)

// Item is one candidate handed to a reranker: the document plus its raw
// cosine similarity from the index scan.
type Item struct {
	Doc        *core.Document
	Similarity float64
}

// Reranker re-scores an initial candidate to incorporate signals beyond raw
// similarity. Implementations must be deterministic for identical inputs.
type Reranker interface {
	// Name identifies the model in results and statistics.
	Name() string

	// Score returns the reranked score for one candidate. The caller clamps
	// the result to [0,1]. now anchors recency math for reproducibility.
	Score(queryText string, it Item, now time.Time) float64
}

// recencyHalfLifeDays controls the exponential decay of the recency boost.
const recencyHalfLifeDays = 30.0

// CosineReranker boosts raw similarity with title-term overlap, an
// exponential-decay recency bonus, and a flat high-priority bonus.
type CosineReranker struct{}

func (CosineReranker) Name() string { return "cosine" }

func (CosineReranker) Score(queryText string, it Item, now time.Time) float64 {
	score := it.Similarity
	if score < 0 {
		score = 0
	}

	score += 0.2 * titleOverlap(queryText, it.Doc.Title)
	score += 0.1 * recencyBoost(it.Doc.UpdatedAt, now)
	if it.Doc.Priority > 3 {
		score += 0.1
	}
	return score
}

// HybridReranker blends similarity with the fraction of query words found in
// the document text.
type HybridReranker struct {
	// Weight is the similarity share of the blend. Zero means the 0.7 default.
	Weight float64
}

func (HybridReranker) Name() string { return "hybrid" }

func (r HybridReranker) Score(queryText string, it Item, _ time.Time) float64 {
	w := r.Weight
	if w <= 0 {
		w = 0.7
	}
	sim := it.Similarity
	if sim < 0 {
		sim = 0
	}
	return w*sim + (1-w)*textOverlap(queryText, it.Doc.Title+" "+it.Doc.Content)
}

// LinearReranker scores with a fixed-weight linear model over a small feature
// vector. The weights are design-time constants, not learned at runtime.
type LinearReranker struct{}

func (LinearReranker) Name() string { return "learning_to_rank" }

// linearCategories are the categories receiving one-hot features; anything
// else contributes nothing to the category terms.
var linearCategories = [4]string{"note", "knowledge", "experience", "conversation"}

// linearWeights pairs with the feature vector produced by features:
// [similarity, titleMatch, contentMatch, priority, recency,
// contentLengthNorm, tagCount, category one-hots x4].
var linearWeights = [11]float64{
	0.55, // similarity
	0.15, // title match
	0.08, // content match
	0.05, // priority
	0.07, // recency
	0.03, // content length
	0.02, // tag count
	0.02, 0.02, 0.01, 0.00, // categories
}

func (LinearReranker) Score(queryText string, it Item, now time.Time) float64 {
	f := features(queryText, it, now)
	var score float64
	for i, w := range linearWeights {
		score += w * f[i]
	}
	return score
}

// features builds the normalized feature vector for the linear model.
// Every feature lies in [0,1].
func features(queryText string, it Item, now time.Time) [11]float64 {
	doc := it.Doc

	var f [11]float64
	f[0] = core.ClampScore(it.Similarity)
	f[1] = titleOverlap(queryText, doc.Title)
	f[2] = textOverlap(queryText, doc.Content)
	f[3] = math.Min(float64(doc.Priority)/10, 1)
	f[4] = recencyBoost(doc.UpdatedAt, now)
	f[5] = math.Min(float64(len(doc.Content))/2000, 1)
	f[6] = math.Min(float64(len(doc.Tags))/10, 1)
	for i, cat := range linearCategories {
		if doc.Category == cat {
			f[7+i] = 1
		}
	}
	return f
}

// titleOverlap returns the fraction of query words appearing in the title,
// whole-word and case-insensitive.
func titleOverlap(queryText, title string) float64 {
	words := strings.Fields(strings.ToLower(queryText))
	if len(words) == 0 {
		return 0
	}

	titleWords := make(map[string]bool)
	for _, w := range strings.Fields(strings.ToLower(title)) {
		titleWords[strings.Trim(w, ".,!?;:'\"-()[]{}")] = true
	}

	hits := 0
	for _, w := range words {
		if titleWords[strings.Trim(w, ".,!?;:'\"-()[]{}")] {
			hits++
		}
	}
	return float64(hits) / float64(len(words))
}

// textOverlap returns the fraction of query words occurring as substrings of
// the text, case-insensitive.
func textOverlap(queryText, text string) float64 {
	words := strings.Fields(strings.ToLower(queryText))
	if len(words) == 0 {
		return 0
	}

	haystack := strings.ToLower(text)
	hits := 0
	for _, w := range words {
		if strings.Contains(haystack, w) {
			hits++
		}
	}
	return float64(hits) / float64(len(words))
}

// recencyBoost decays exponentially with document age in days.
// A zero timestamp contributes nothing.
func recencyBoost(updatedAt, now time.Time) float64 {
	if updatedAt.IsZero() {
		return 0
	}
	ageDays := now.Sub(updatedAt).Hours() / 24
	if ageDays < 0 {
		ageDays = 0
	}
	return math.Exp(-ageDays / recencyHalfLifeDays)
}
