package main

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/avelarde/rentmap/internal/adapters/geocode"
	"github.com/avelarde/rentmap/internal/adapters/postgres"
	"github.com/avelarde/rentmap/internal/core/domain"
	"github.com/avelarde/rentmap/internal/core/usecases"
	"github.com/avelarde/rentmap/internal/pkg/config"
)

// The importer bulk-loads listings from a CSV export. Each row is geocoded
// and written through the same creation path as the API, so unresolved
// addresses land with the origin placeholder exactly like interactive
// creates do.
//
// Usage: importer <listings.csv> [manager-id]
func main() {
	if len(os.Args) < 2 {
		log.Fatal("usage: importer <listings.csv> [manager-id]")
	}
	csvPath := os.Args[1]
	managerID := "importer"
	if len(os.Args) > 2 {
		managerID = os.Args[2]
	}

	cfg, err := config.Load("rentmap-importer")
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx := context.Background()

	db, err := postgres.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer db.Close()

	geocoder := geocode.New(
		cfg.Geocoder.BaseURL,
		cfg.Geocoder.UserAgent,
		time.Duration(cfg.Geocoder.TimeoutSeconds)*time.Second,
		cfg.Geocoder.MaxRetries,
	)

	svc := usecases.NewPropertyService(postgres.NewPropertyRepo(db), geocoder, nil, nil)

	f, err := os.Open(csvPath)
	if err != nil {
		log.Fatalf("open %s: %v", csvPath, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	header, err := r.Read()
	if err != nil {
		log.Fatalf("read header: %v", err)
	}
	col := map[string]int{}
	for i, name := range header {
		col[strings.TrimSpace(name)] = i
	}
	for _, required := range []string{"name", "street", "city"} {
		if _, ok := col[required]; !ok {
			log.Fatalf("missing required column %q", required)
		}
	}

	var wg sync.WaitGroup
	sem := make(chan struct{}, 2) // stay polite to the geocoding provider
	var imported, failed atomic.Int64

	line := 1
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			log.Printf("ERROR line %d: %v", line, err)
			failed.Add(1)
			continue
		}

		prop, addr := rowToProperty(record, col)

		wg.Add(1)
		go func(n int, p *domain.Property, a domain.Address) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			if _, err := svc.Create(ctx, p, a, managerID); err != nil {
				log.Printf("ERROR line %d (%s): %v", n, p.Name, err)
				failed.Add(1)
				return
			}
			imported.Add(1)
		}(line, prop, addr)
	}

	wg.Wait()
	fmt.Printf("imported %d listings, %d failed\n", imported.Load(), failed.Load())
}

// rowToProperty maps one CSV record onto a property and its address. Missing
// or unparseable numeric cells fall back to zero; amenities and highlights
// are pipe-separated inside their cell.
func rowToProperty(record []string, col map[string]int) (*domain.Property, domain.Address) {
	get := func(name string) string {
		i, ok := col[name]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}
	getFloat := func(name string) float64 {
		v, _ := strconv.ParseFloat(get(name), 64)
		return v
	}
	getInt := func(name string) int {
		v, _ := strconv.Atoi(get(name))
		return v
	}
	getBool := func(name string) bool {
		v, _ := strconv.ParseBool(get(name))
		return v
	}
	getList := func(name string) []string {
		raw := get(name)
		if raw == "" {
			return nil
		}
		var out []string
		for _, part := range strings.Split(raw, "|") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
		return out
	}

	prop := &domain.Property{
		Name:              get("name"),
		Description:       get("description"),
		PricePerMonth:     getFloat("price_per_month"),
		SecurityDeposit:   getFloat("security_deposit"),
		ApplicationFee:    getFloat("application_fee"),
		Beds:              getInt("beds"),
		Baths:             getInt("baths"),
		SquareFeet:        getFloat("square_feet"),
		PropertyType:      get("property_type"),
		Amenities:         getList("amenities"),
		Highlights:        getList("highlights"),
		PhotoURLs:         getList("photo_urls"),
		IsPetsAllowed:     getBool("is_pets_allowed"),
		IsParkingIncluded: getBool("is_parking_included"),
	}
	addr := domain.Address{
		Street:     get("street"),
		City:       get("city"),
		State:      get("state"),
		Country:    get("country"),
		PostalCode: get("postal_code"),
	}
	return prop, addr
}
