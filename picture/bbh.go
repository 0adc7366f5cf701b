package picture

import (
	"slices"

	"github.com/tidwall/rtree"

	"github.com/gogpu/flow"
)

// bbhMargin inflates every indexed rectangle so that overlap queries stay
// conservative for antialiasing fringes and near misses.
const bbhMargin = 5.0

// bbh is the bounding-box hierarchy mapping geometry bounds to command
// indices.
type bbh struct {
	tree rtree.RTreeG[int]
}

// insert indexes cmd under r. Non-finite rectangles are not indexable and
// are dropped.
func (b *bbh) insert(r flow.Rect, cmd int) {
	if !r.IsFinite() {
		return
	}
	b.tree.Insert([2]float64{r.MinX, r.MinY}, [2]float64{r.MaxX, r.MaxY}, cmd)
}

// search returns the indices of all commands whose indexed rectangle
// touches r, in ascending order.
func (b *bbh) search(r flow.Rect) []int {
	var hits []int
	b.tree.Search([2]float64{r.MinX, r.MinY}, [2]float64{r.MaxX, r.MaxY},
		func(_, _ [2]float64, cmd int) bool {
			hits = append(hits, cmd)
			return true
		})
	slices.Sort(hits)
	return hits
}

func (b *bbh) len() int {
	return b.tree.Len()
}
