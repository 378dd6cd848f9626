package democloset

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/vrodas/ropero/internal/domain/model"
	"github.com/vrodas/ropero/pkg/logger"
)

var colorPool = []string{
	"negro", "blanco", "gris", "beige", "camel", "azul marino", "crema",
	"rojo", "verde esmeralda", "amarillo mostaza", "rosa palo", "burdeos",
	"naranja", "morado",
}

var vibePool = [][]string{
	{"basico"},
	{"basico", "minimalista"},
	{"casual"},
	{"casual", "urbano"},
	{"elegante", "clasico"},
	{"llamativo"},
	{"deportivo"},
	{"boho", "romantico"},
	{"atemporal", "clasico"},
}

var seasonPool = [][]string{
	{"spring", "summer", "fall", "winter"},
	{"spring", "summer", "fall"},
	{"fall", "winter"},
	{"spring", "summer"},
	{"summer"},
	{"winter"},
}

var reasoningPool = []string{
	"combinacion neutra que funciona en cualquier contexto",
	"contraste de color equilibrado",
	"mismo registro casual, colores compatibles",
	"estilos distintos pero paleta coherente",
	"choque de estampados, usar con cuidado",
}

// randomInt returns a uniform random integer in [0, max).
func randomInt(max int) int {
	n, err := rand.Int(rand.Reader, big.NewInt(int64(max)))
	if err != nil {
		// crypto/rand only fails when the platform source is broken.
		panic(fmt.Sprintf("random source unavailable: %v", err))
	}
	return int(n.Int64())
}

// randomCategory picks a category with tops, bottoms and shoes weighted
// heavier than the rest, roughly matching a real closet.
func randomCategory() model.Category {
	switch randomInt(10) {
	case 0, 1, 2:
		return model.CategoryTop
	case 3, 4:
		return model.CategoryBottom
	case 5, 6:
		return model.CategoryShoes
	case 7:
		return model.CategoryOuterwear
	case 8:
		return model.CategoryAccessory
	default:
		return model.CategoryOnePiece
	}
}

func generateGarment(idx int) (GarmentSubmission, model.Garment) {
	g := model.Garment{
		ID:           uuid.NewString(),
		Category:     randomCategory(),
		ColorPrimary: colorPool[randomInt(len(colorPool))],
		VibeTags:     vibePool[randomInt(len(vibePool))],
		Seasons:      seasonPool[randomInt(len(seasonPool))],
	}

	sub := GarmentSubmission{
		EventID:      fmt.Sprintf("event_%d_%d_%d", idx, time.Now().Unix(), randomInt(1_000_000)),
		GarmentID:    g.ID,
		Category:     string(g.Category),
		ColorPrimary: g.ColorPrimary,
		VibeTags:     g.VibeTags,
		Seasons:      g.Seasons,
		TS:           time.Now().UTC().Format(time.RFC3339),
	}
	return sub, g
}

// GenerateGarments produces cfg.NumGarments synthetic garments concurrently.
// It returns both the wire-format submissions and the equivalent domain
// garments for local score verification.
func GenerateGarments(ctx context.Context, cfg *Config) ([]GarmentSubmission, []model.Garment) {
	log := logger.Get().Named("generator")
	log.Info(ctx, "generating garments",
		logger.Int("count", cfg.NumGarments),
		logger.Int("workers", cfg.Workers))

	type generated struct {
		sub GarmentSubmission
		g   model.Garment
	}

	resultChan := make(chan generated, cfg.NumGarments)
	var wg sync.WaitGroup

	perWorker := cfg.NumGarments / cfg.Workers
	remainder := cfg.NumGarments % cfg.Workers

	start := 0
	for w := 0; w < cfg.Workers; w++ {
		count := perWorker
		if w < remainder {
			count++
		}
		wg.Add(1)
		go func(first, n int) {
			defer wg.Done()
			for i := 0; i < n; i++ {
				sub, g := generateGarment(first + i)
				resultChan <- generated{sub: sub, g: g}
			}
		}(start, count)
		start += count
	}

	wg.Wait()
	close(resultChan)

	subs := make([]GarmentSubmission, 0, cfg.NumGarments)
	garments := make([]model.Garment, 0, cfg.NumGarments)
	for r := range resultChan {
		subs = append(subs, r.sub)
		garments = append(garments, r.g)
	}

	log.Info(ctx, "garment generation complete", logger.Int("generated", len(subs)))
	return subs, garments
}

// BuildCapsule assembles a demo capsule from the first garments of the
// closet, with a randomly scored compatibility matrix over every pair.
func BuildCapsule(garments []model.Garment) CapsuleSubmission {
	n := len(garments)
	if n > MaxCapsuleItems {
		n = MaxCapsuleItems
	}

	capsule := CapsuleSubmission{
		CapsuleID: fmt.Sprintf("capsule-%s", uuid.NewString()[:8]),
		ItemIDs:   make([]string, 0, n),
	}
	for i := 0; i < n; i++ {
		capsule.ItemIDs = append(capsule.ItemIDs, garments[i].ID)
	}

	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			capsule.Matrix = append(capsule.Matrix, model.CompatibilityPair{
				Item1ID:   garments[i].ID,
				Item2ID:   garments[j].ID,
				Score:     ScoreMatrixMin + randomInt(ScoreMatrixMax-ScoreMatrixMin+1),
				Reasoning: reasoningPool[randomInt(len(reasoningPool))],
			})
		}
	}
	return capsule
}
