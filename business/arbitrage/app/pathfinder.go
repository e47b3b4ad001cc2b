package app

import (
	"sort"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/solarb/solarb/business/arbitrage/domain"
	marketDomain "github.com/solarb/solarb/business/market/domain"
)

// defaultEdgeLiquidity is assumed when a quote reports none.
var defaultEdgeLiquidity = decimal.NewFromInt(100000)

// PathFinder discovers multi-hop cycles through the trading graph. The graph
// is rebuilt from scratch every cycle via Clear plus AddQuote, which avoids
// stale-edge bugs at the cost of rebuilding a small adjacency list.
type PathFinder struct {
	mu      sync.RWMutex
	edges   map[string][]domain.Edge
	tokens  map[string]struct{}
	maxHops int
}

// NewPathFinder creates a finder bounded to maxHops edges per cycle. The
// bound matters: the graph is close to a complete multigraph and an
// unbounded DFS is exponential.
func NewPathFinder(maxHops int) *PathFinder {
	if maxHops < 2 {
		maxHops = 2
	}
	return &PathFinder{
		edges:   make(map[string][]domain.Edge),
		tokens:  make(map[string]struct{}),
		maxHops: maxHops,
	}
}

// Clear resets the graph for the next cycle.
func (f *PathFinder) Clear() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.edges = make(map[string][]domain.Edge)
	f.tokens = make(map[string]struct{})
}

// AddQuote inserts the forward edge (sell base for quote at the bid) and
// the inverse edge (buy base with quote at 1/ask).
func (f *PathFinder) AddQuote(q marketDomain.Quote) {
	if !q.Bid.IsPositive() || !q.Ask.IsPositive() {
		return
	}

	liquidity := q.Liquidity
	if !liquidity.IsPositive() {
		liquidity = defaultEdgeLiquidity
	}
	fee := q.Venue.FeePercentage()

	forward := domain.Edge{
		FromToken: q.Pair.Base,
		ToToken:   q.Pair.Quote,
		Venue:     q.Venue,
		Rate:      q.Bid,
		Liquidity: liquidity,
		Fee:       fee,
	}
	inverse := domain.Edge{
		FromToken: q.Pair.Quote,
		ToToken:   q.Pair.Base,
		Venue:     q.Venue,
		Rate:      decimal.NewFromInt(1).Div(q.Ask),
		Liquidity: liquidity,
		Fee:       fee,
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.tokens[q.Pair.Base] = struct{}{}
	f.tokens[q.Pair.Quote] = struct{}{}
	f.edges[forward.FromToken] = append(f.edges[forward.FromToken], forward)
	f.edges[inverse.FromToken] = append(f.edges[inverse.FromToken], inverse)
}

// FindTriangularPaths returns profitable cycles starting and ending at
// start, sorted by descending profit ratio.
func (f *PathFinder) FindTriangularPaths(start string) []domain.Path {
	f.mu.RLock()
	defer f.mu.RUnlock()

	if _, ok := f.tokens[start]; !ok {
		return nil
	}

	var paths []domain.Path
	f.dfs(start, start, nil, decimal.NewFromInt(1), decimal.Decimal{}, &paths)

	sort.Slice(paths, func(i, j int) bool {
		return paths[i].ProfitRatio.GreaterThan(paths[j].ProfitRatio)
	})
	return paths
}

// dfs extends the current path edge by edge, compounding the effective rate
// and tracking the thinnest pool. A revisited token prunes the branch unless
// it closes the cycle at start with at least 2 hops. Caller holds f.mu.
func (f *PathFinder) dfs(current, start string, path []domain.Edge, ratio, minLiquidity decimal.Decimal, out *[]domain.Path) {
	if len(path) >= 2 && current == start {
		candidate := domain.Path{
			Edges:        append([]domain.Edge(nil), path...),
			ProfitRatio:  ratio,
			MinLiquidity: minLiquidity,
		}
		if candidate.Profitable() {
			*out = append(*out, candidate)
		}
		return
	}
	if len(path) >= f.maxHops {
		return
	}

	for _, edge := range f.edges[current] {
		visited := false
		for _, e := range path {
			if e.ToToken == edge.ToToken {
				visited = true
				break
			}
		}
		if visited && edge.ToToken != start {
			continue
		}

		newMin := edge.Liquidity
		if len(path) > 0 && minLiquidity.LessThan(newMin) {
			newMin = minLiquidity
		}

		f.dfs(edge.ToToken, start, append(path, edge), ratio.Mul(edge.EffectiveRate()), newMin, out)
	}
}

// FindBestPath returns the top cycle from start, if any.
func (f *PathFinder) FindBestPath(start string) (domain.Path, bool) {
	paths := f.FindTriangularPaths(start)
	if len(paths) == 0 {
		return domain.Path{}, false
	}
	return paths[0], true
}

// FindAllProfitablePaths searches from every known token, deduplicates
// cycles discovered from multiple starting points, and sorts by descending
// profit ratio.
func (f *PathFinder) FindAllProfitablePaths() []domain.Path {
	f.mu.RLock()
	tokens := make([]string, 0, len(f.tokens))
	for token := range f.tokens {
		tokens = append(tokens, token)
	}
	f.mu.RUnlock()
	sort.Strings(tokens)

	var all []domain.Path
	seen := make(map[string]struct{})
	for _, token := range tokens {
		for _, path := range f.FindTriangularPaths(token) {
			key := cycleKey(path)
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			all = append(all, path)
		}
	}

	sort.Slice(all, func(i, j int) bool {
		return all[i].ProfitRatio.GreaterThan(all[j].ProfitRatio)
	})
	return all
}

// cycleKey identifies a cycle by its edge sequence, rotated so the smallest
// token leads. The same loop found from different starts maps to one key.
func cycleKey(p domain.Path) string {
	n := len(p.Edges)
	if n == 0 {
		return ""
	}

	pivot := 0
	for i := 1; i < n; i++ {
		if p.Edges[i].FromToken < p.Edges[pivot].FromToken {
			pivot = i
		}
	}

	key := ""
	for i := 0; i < n; i++ {
		e := p.Edges[(pivot+i)%n]
		key += e.FromToken + ">" + e.ToToken + "@" + string(e.Venue) + "|"
	}
	return key
}
