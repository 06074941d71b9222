package harvest

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"foodpipeline/database"
	"foodpipeline/snapshot"
)

const listingHTML = `
	<html><body>
		<a class="product-link" href="/products/adult-duck">Adult Duck</a>
		<a class="product-link" href="/products/puppy-lamb">Puppy Lamb</a>
	</body></html>`

func productHTML(name string) string {
	return fmt.Sprintf(`
		<html><body>
			<h1 class="product-title">%s</h1>
			<span class="brand">Briantos</span>
			<div class="composition">Chicken (26%%), rice</div>
			<div class="analytics">Protein: 24%%, Fat: 12%%</div>
			<span class="price">24.99</span>
		</body></html>`, name)
}

// Апстрим имитирует прокси: целевой адрес приходит в параметре url
func harvestUpstream(t *testing.T, failures map[string]int) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		target := r.URL.Query().Get("url")
		switch {
		case strings.HasSuffix(target, "/dogs"):
			fmt.Fprint(w, listingHTML)
		case strings.HasSuffix(target, "/adult-duck"):
			fmt.Fprint(w, productHTML("Adult Duck"))
		case strings.HasSuffix(target, "/puppy-lamb"):
			if failures["/puppy-lamb"] > 0 {
				failures["/puppy-lamb"]--
				w.WriteHeader(http.StatusBadGateway)
				return
			}
			fmt.Fprint(w, productHTML("Puppy Lamb"))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func testSource(listingURL string) SourceConfig {
	return SourceConfig{
		Name:        "briantos",
		ListingURLs: []string{listingURL},
		Selectors:   testSelectors,
	}
}

func TestHarvesterRun(t *testing.T) {
	upstream := harvestUpstream(t, nil)

	conn, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })

	for _, name := range []string{"Adult Duck", "Puppy Lamb"} {
		mock.ExpectExec("INSERT INTO manufacturer_harvest_staging").
			WithArgs(sqlmock.AnyArg(), "briantos", sqlmock.AnyArg(), "Briantos", name, sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(1, 1))
	}

	store := snapshot.NewMemoryStore()
	h, err := NewHarvester(testClient(t, upstream.URL, 0), store, database.NewCatalogDBFromConn(conn))
	if err != nil {
		t.Fatalf("NewHarvester failed: %v", err)
	}

	result, err := h.Run(context.Background(), testSource("https://shop.example.com/dogs"))
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if result.ListingsTotal != 1 {
		t.Errorf("listings = %d, want 1", result.ListingsTotal)
	}
	if result.PagesFetched != 2 || result.RowsStaged != 2 {
		t.Errorf("fetched = %d staged = %d, want 2 and 2", result.PagesFetched, result.RowsStaged)
	}
	if result.PagesFailed != 0 {
		t.Errorf("failed = %d, want 0", result.PagesFailed)
	}

	// Снимок листинга и две карточки
	keys, err := store.List(context.Background(), "scraped/briantos/"+result.SessionID+"/")
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(keys) != 3 {
		t.Errorf("snapshots = %d, want 3: %v", len(keys), keys)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestHarvesterRunMaxProducts(t *testing.T) {
	upstream := harvestUpstream(t, nil)

	conn, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })

	mock.ExpectExec("INSERT INTO manufacturer_harvest_staging").
		WithArgs(sqlmock.AnyArg(), "briantos", sqlmock.AnyArg(), "Briantos", "Adult Duck", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	h, err := NewHarvester(testClient(t, upstream.URL, 0), snapshot.NewMemoryStore(), database.NewCatalogDBFromConn(conn))
	if err != nil {
		t.Fatalf("NewHarvester failed: %v", err)
	}

	source := testSource("https://shop.example.com/dogs")
	source.MaxProducts = 1

	result, err := h.Run(context.Background(), source)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if result.RowsStaged != 1 {
		t.Errorf("staged = %d, want 1", result.RowsStaged)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestHarvesterContinuesAfterPageFailure(t *testing.T) {
	// Карточка puppy-lamb отдает 502, ретраи исчерпаны, сессия продолжается
	upstream := harvestUpstream(t, map[string]int{"/puppy-lamb": 10})

	conn, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })

	mock.ExpectExec("INSERT INTO manufacturer_harvest_staging").
		WithArgs(sqlmock.AnyArg(), "briantos", sqlmock.AnyArg(), "Briantos", "Adult Duck", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	h, err := NewHarvester(testClient(t, upstream.URL, 0), snapshot.NewMemoryStore(), database.NewCatalogDBFromConn(conn))
	if err != nil {
		t.Fatalf("NewHarvester failed: %v", err)
	}

	result, err := h.Run(context.Background(), testSource("https://shop.example.com/dogs"))
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if result.PagesFetched != 1 || result.PagesFailed != 1 {
		t.Errorf("fetched = %d failed = %d, want 1 and 1", result.PagesFetched, result.PagesFailed)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestHarvesterValidation(t *testing.T) {
	upstream := harvestUpstream(t, nil)
	client := testClient(t, upstream.URL, 0)

	if _, err := NewHarvester(nil, snapshot.NewMemoryStore(), nil); err == nil {
		t.Error("expected error for nil client")
	}

	conn, _, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })

	h, err := NewHarvester(client, snapshot.NewMemoryStore(), database.NewCatalogDBFromConn(conn))
	if err != nil {
		t.Fatalf("NewHarvester failed: %v", err)
	}

	if _, err := h.Run(context.Background(), SourceConfig{}); err == nil {
		t.Error("expected error for empty source name")
	}
	if _, err := h.Run(context.Background(), SourceConfig{Name: "x"}); err == nil {
		t.Error("expected error for missing listing urls")
	}
}
