package harvest

import (
	"bytes"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Selectors CSS-селекторы для извлечения данных со страниц сайта.
// Разные сайты производителей задают свои селекторы в конфигурации
// источника.
type Selectors struct {
	// Селектор ссылок на карточки в листинге
	ProductLink string
	// Селектор название продукта на карточке
	ProductName string
	// Селектор бренда на карточке, может быть пустым
	Brand string
	// Селектор блока состава
	Ingredients string
	// Селектор блока пищевой ценности
	Nutrition string
	// Селектор цены
	Price string
}

// ProductPage извлеченные поля карточки продукта
type ProductPage struct {
	URL            string
	Name           string
	RawBrand       string
	IngredientsRaw string
	NutritionRaw   string
	PriceRaw       string
}

// ParseProductLinks извлекает абсолютные ссылки на карточки из
// HTML страницы листинга
func ParseProductLinks(html []byte, baseURL string, selectors Selectors) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse listing page: %w", err)
	}

	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base url: %w", err)
	}

	seen := make(map[string]struct{})
	var links []string
	doc.Find(selectors.ProductLink).Each(func(_ int, s *goquery.Selection) {
		href, ok := s.Attr("href")
		if !ok || href == "" {
			return
		}
		ref, err := url.Parse(href)
		if err != nil {
			return
		}
		abs := base.ResolveReference(ref).String()
		if _, dup := seen[abs]; dup {
			return
		}
		seen[abs] = struct{}{}
		links = append(links, abs)
	})

	return links, nil
}

// ParseProductPage извлекает поля карточки продукта из HTML
func ParseProductPage(html []byte, pageURL string, selectors Selectors) (*ProductPage, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse product page: %w", err)
	}

	page := &ProductPage{URL: pageURL}
	page.Name = cleanText(doc.Find(selectors.ProductName).First().Text())
	if page.Name == "" {
		return nil, fmt.Errorf("product name not found on page %s", pageURL)
	}

	if selectors.Brand != "" {
		page.RawBrand = cleanText(doc.Find(selectors.Brand).First().Text())
	}
	if selectors.Ingredients != "" {
		page.IngredientsRaw = cleanText(doc.Find(selectors.Ingredients).First().Text())
	}
	if selectors.Nutrition != "" {
		page.NutritionRaw = cleanText(doc.Find(selectors.Nutrition).First().Text())
	}
	if selectors.Price != "" {
		page.PriceRaw = cleanText(doc.Find(selectors.Price).First().Text())
	}

	return page, nil
}

func cleanText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
