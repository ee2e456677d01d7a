package catalog

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	domain "github.com/example/coffee-shop/domain/product"
)

// sampleImages drive the generated demo catalog; the product name and
// category are inferred from each image name.
var sampleImages = []string{
	"americano.jpg", "cafe_latte.jpg", "cappuccino.jpg", "strawberry_juice.jpg",
	"croissant.jpg", "ciabatta.jpg", "baguette.jpg", "pretzel.jpg", "blueberry_muffin.jpg",
	"chocolate_cake.jpg", "cheese_cake.jpg", "macaron.jpg", "apple_tart.jpg", "lemon_pie.jpg",
}

var beverageWords = []string{"americano", "latte", "milk", "coffee", "cappuccino", "juice", "wine"}
var breadWords = []string{"croissant", "ciabatta", "brioche", "baguette", "scone", "pretzel", "muffin"}
var cakeWords = []string{"cake", "macaron", "pie", "tart"}

var descTastes = []string{"sweet", "nutty", "soft", "fresh", "rich", "mild", "moist", "fragrant"}
var descNotes = []string{"flavor", "aroma", "texture", "finish"}

// Seed fills an empty catalog with generated sample products. It is a
// no-op when any product already exists.
func Seed(repo *Repository) (int, error) {
	count, err := repo.Count()
	if err != nil {
		return 0, err
	}
	if count > 0 {
		return 0, nil
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	created := 0
	for _, image := range sampleImages {
		product := generateProduct(rng, image)
		if err := repo.Create(product); err != nil {
			return created, fmt.Errorf("failed to seed product %q: %w", product.Name, err)
		}
		created++
	}
	return created, nil
}

func generateProduct(rng *rand.Rand, image string) *domain.Product {
	category := inferCategory(image)
	name := nameFromImage(image)

	var price int
	switch category {
	case domain.CategoryBeverage:
		price = priceHundreds(rng, 3500, 6000)
	case domain.CategoryBread:
		price = priceHundreds(rng, 2000, 5000)
	case domain.CategoryCake:
		price = priceHundreds(rng, 5000, 9000)
	default:
		price = 3000
	}

	return &domain.Product{
		Name:     name,
		Category: category,
		Price:    price,
		// stock in units of ten, like the shop floor counts it
		Stock:       (randRange(rng, 50, 200) / 10) * 10,
		Description: fmt.Sprintf("%s has a %s %s.", name, descTastes[rng.Intn(len(descTastes))], descNotes[rng.Intn(len(descNotes))]),
		Image:       image,
		InputDate:   time.Now().AddDate(0, 0, -randRange(rng, 1, 30)),
	}
}

func inferCategory(image string) domain.Category {
	lower := strings.ToLower(image)
	for _, w := range beverageWords {
		if strings.Contains(lower, w) {
			return domain.CategoryBeverage
		}
	}
	for _, w := range breadWords {
		if strings.Contains(lower, w) {
			return domain.CategoryBread
		}
	}
	for _, w := range cakeWords {
		if strings.Contains(lower, w) {
			return domain.CategoryCake
		}
	}
	return domain.CategoryAll
}

func nameFromImage(image string) string {
	name := image
	if idx := strings.LastIndex(name, "."); idx >= 0 {
		name = name[:idx]
	}
	words := strings.Fields(strings.ReplaceAll(name, "_", " "))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// priceHundreds picks a price in [min,max] truncated to 100-unit steps.
func priceHundreds(rng *rand.Rand, min, max int) int {
	return (randRange(rng, min, max) / 100) * 100
}

func randRange(rng *rand.Rand, min, max int) int {
	return rng.Intn(max-min+1) + min
}
