// Seeds a development database with a couple of restaurants, their menus and
// operating hours, and a customer with an address and payment method.
package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/pratofeito/pratofeito/internal/config"
	"github.com/pratofeito/pratofeito/internal/menu"
	"github.com/pratofeito/pratofeito/internal/postgres"
	"github.com/pratofeito/pratofeito/internal/schedule"
)

func main() {
	_ = godotenv.Load()
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	cfg := config.Load()
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := postgres.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		slog.Error("db connect", "err", err)
		os.Exit(1)
	}
	defer db.Close()

	menuRepo := &menu.Repo{DB: db}
	schedRepo := &schedule.Repo{DB: db}

	type dish struct {
		name  string
		desc  string
		price int
	}
	restaurants := []struct {
		name     string
		tz       string
		fee      int
		sections map[string][]dish
	}{
		{
			name: "Cantina da Nona", tz: "America/Sao_Paulo", fee: 500,
			sections: map[string][]dish{
				"Massas": {
					{"Lasanha à Bolonhesa", "Camadas de massa fresca e ragu", 4200},
					{"Nhoque ao Sugo", "Batata, molho de tomate caseiro", 3500},
				},
				"Sobremesas": {
					{"Tiramisù", "Receita da casa", 1800},
				},
			},
		},
		{
			name: "Sabor do Norte", tz: "America/Manaus", fee: 700,
			sections: map[string][]dish{
				"Pratos": {
					{"Tacacá", "Tucupi, jambu e camarão", 2500},
					{"Pato no Tucupi", "Prato típico paraense", 5400},
				},
			},
		},
	}

	for _, r := range restaurants {
		var restID int64
		err := db.QueryRow(ctx, `
			INSERT INTO restaurants(name, timezone, fee_cents) VALUES ($1, $2, $3) RETURNING id`,
			r.name, r.tz, r.fee).Scan(&restID)
		if err != nil {
			slog.Error("insert restaurant", "name", r.name, "err", err)
			os.Exit(1)
		}

		for section, dishes := range r.sections {
			catID, err := menuRepo.AddCategory(ctx, restID, section)
			if err != nil {
				slog.Error("insert category", "err", err)
				os.Exit(1)
			}
			for _, d := range dishes {
				if _, err := menuRepo.AddDish(ctx, restID, catID, d.name, d.desc, d.price); err != nil {
					slog.Error("insert dish", "err", err)
					os.Exit(1)
				}
			}
		}

		// open Tuesday through Sunday, lunch to late evening
		var windows []schedule.Window
		for day := time.Tuesday; day <= time.Saturday; day++ {
			windows = append(windows, schedule.Window{Weekday: day, OpenSecs: 11 * 3600, CloseSecs: 23 * 3600})
		}
		windows = append(windows, schedule.Window{Weekday: time.Sunday, OpenSecs: 11 * 3600, CloseSecs: 16 * 3600})
		if err := schedRepo.Replace(ctx, restID, windows); err != nil {
			slog.Error("insert schedule", "err", err)
			os.Exit(1)
		}
		slog.Info("seeded restaurant", "id", restID, "name", r.name)
	}

	var custID int64
	if err := db.QueryRow(ctx, `
		INSERT INTO customers(name, email) VALUES ('Ana Souza', 'ana@example.com') RETURNING id`).
		Scan(&custID); err != nil {
		slog.Error("insert customer", "err", err)
		os.Exit(1)
	}
	if _, err := db.Exec(ctx, `
		INSERT INTO addresses(customer_id, street, number, district, city, state, zip)
		VALUES ($1, 'Rua das Flores', '100', 'Centro', 'São Paulo', 'SP', '01000-000')`, custID); err != nil {
		slog.Error("insert address", "err", err)
		os.Exit(1)
	}
	if _, err := db.Exec(ctx, `
		INSERT INTO payment_methods(name) VALUES ('Pix'), ('Cartão de Crédito')
		ON CONFLICT DO NOTHING`); err != nil {
		slog.Error("insert payment methods", "err", err)
		os.Exit(1)
	}
	slog.Info("seed complete", "customer", custID)
}
