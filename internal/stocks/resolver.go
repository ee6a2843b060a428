package stocks

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog/log"

	"StockDesk/internal/coerce"
	"StockDesk/internal/docstore"
	"StockDesk/internal/faults"
	"StockDesk/internal/format"
	"StockDesk/internal/model"
)

// Accepted field spellings, preferred first. The store's schema evolved
// across providers, so the same logical field shows up under several names.
var (
	companyNameKeys = []string{"companyName", "name", "longName"}
	sectorKeys      = []string{"sector", "industry"}
	marketCapKeys   = []string{"marketCap", "market_cap", "marketCapitalization", "mktCap"}
)

// metadataPaths lists candidate document locations for a symbol, canonical
// record first, then the legacy nested profile location. Both shapes coexist
// in the store.
func metadataPaths(symbol string) []string {
	return []string{
		"stocks/" + symbol,
		"stocks/" + symbol + "/profile/overview",
	}
}

// Resolver finds the first structurally valid metadata record across the
// candidate locations.
type Resolver struct {
	store docstore.Store
}

func NewResolver(store docstore.Store) *Resolver {
	return &Resolver{store: store}
}

// Resolve reads every candidate location concurrently, then evaluates the
// completed results strictly in priority order: the first valid record wins
// regardless of which read finished first. Absence at one location falls
// through to the next; any other read error aborts resolution unchanged.
func (r *Resolver) Resolve(ctx context.Context, symbol string) (model.Metadata, error) {
	paths := metadataPaths(symbol)
	docs := make([]*docstore.Document, len(paths))
	errs := make([]error, len(paths))

	var wg sync.WaitGroup
	for i, p := range paths {
		wg.Add(1)
		go func(i int, p string) {
			defer wg.Done()
			docs[i], errs[i] = r.store.Get(ctx, p)
		}(i, p)
	}
	wg.Wait()

	for i := range paths {
		if errs[i] != nil {
			if errors.Is(errs[i], docstore.ErrNotExist) {
				continue
			}
			return model.Metadata{}, errs[i]
		}
		md, ok := metadataFrom(docs[i].Fields)
		if !ok {
			log.Debug().Str("symbol", symbol).Str("path", paths[i]).
				Msg("candidate metadata document rejected")
			continue
		}
		return md, nil
	}
	return model.Metadata{}, faults.NotFound("metadata", symbol)
}

// metadataFrom validates a candidate document. A record is valid only when
// company name, sector, and a formattable market cap are all present;
// partial documents are rejected outright.
func metadataFrom(fields map[string]any) (model.Metadata, bool) {
	name, ok := coerce.FirstString(fields, companyNameKeys...)
	if !ok {
		return model.Metadata{}, false
	}
	sector, ok := coerce.FirstString(fields, sectorKeys...)
	if !ok {
		return model.Metadata{}, false
	}
	var capValue any
	found := false
	for _, k := range marketCapKeys {
		if v, present := fields[k]; present {
			capValue, found = v, true
			break
		}
	}
	if !found {
		return model.Metadata{}, false
	}
	capStr, err := format.MarketCap(capValue)
	if err != nil {
		return model.Metadata{}, false
	}
	return model.Metadata{CompanyName: name, Sector: sector, MarketCap: capStr}, true
}
