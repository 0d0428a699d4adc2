// seed-demo-data populates a development database with a few companies
// and product listings so the marketplace can be exercised locally.
//
// Accounts created (password for all: "senha123"):
// - admin@connecta.local (admin)
// - comprador@connecta.local (buyer)
// - fornecedor@connecta.local (supplier, verified)
//
// Usage: go run ./scripts/seed-demo-data
//
// Database connection: Uses standard PG* environment variables
//
// Flags:
//
//	-password   Password assigned to every demo account (default: "senha123")
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/bcrypt"
)

type demoCompany struct {
	name     string
	taxID    string
	email    string
	role     string
	verified bool
}

type demoProduct struct {
	supplierEmail string
	name          string
	description   string
	category      string
	basePrice     float64
}

var demoCompanies = []demoCompany{
	{"Connecta Admin", "00000000000100", "admin@connecta.local", "admin", true},
	{"Metalúrgica Aurora", "11222333000144", "comprador@connecta.local", "buyer", true},
	{"Ferragens do Vale", "44555666000177", "fornecedor@connecta.local", "supplier", true},
}

var demoProducts = []demoProduct{
	{"fornecedor@connecta.local", "Parafuso Sextavado M8", "Aço inox A2, caixa com 500 unidades", "Fixadores", 89.90},
	{"fornecedor@connecta.local", "Chapa de Aço 1020", "Chapa laminada a quente, 2mm, 1x2m", "Metais", 310.00},
	{"fornecedor@connecta.local", "Luva de Segurança Nitrílica", "Par, tamanho G, CA vigente", "EPI", 12.50},
}

func main() {
	password := flag.String("password", "senha123", "Password assigned to every demo account")
	flag.Parse()

	ctx := context.Background()

	conn, err := pgx.Connect(ctx, buildConnString())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to connect to database: %v\n", err)
		os.Exit(1)
	}
	defer conn.Close(ctx)

	hash, err := bcrypt.GenerateFromPassword([]byte(*password), bcrypt.DefaultCost)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to hash password: %v\n", err)
		os.Exit(1)
	}

	for _, c := range demoCompanies {
		tag, err := conn.Exec(ctx, `
			INSERT INTO companies (name, tax_id, email, password_hash, role, verified)
			VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT (email) DO NOTHING
		`, c.name, c.taxID, c.email, string(hash), c.role, c.verified)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to insert company %s: %v\n", c.email, err)
			os.Exit(1)
		}
		if tag.RowsAffected() == 0 {
			fmt.Printf("Company %s already exists, skipping\n", c.email)
		} else {
			fmt.Printf("Created %s company %s\n", c.role, c.email)
		}
	}

	for _, p := range demoProducts {
		tag, err := conn.Exec(ctx, `
			INSERT INTO products (supplier_id, name, description, category, base_price)
			SELECT c.id, $2, $3, $4, $5 FROM companies c
			WHERE c.email = $1
			  AND NOT EXISTS (
			      SELECT 1 FROM products p WHERE p.supplier_id = c.id AND p.name = $2
			  )
		`, p.supplierEmail, p.name, p.description, p.category, p.basePrice)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to insert product %q: %v\n", p.name, err)
			os.Exit(1)
		}
		if tag.RowsAffected() > 0 {
			fmt.Printf("Created product %q in %s\n", p.name, p.category)
		}
	}

	fmt.Println("\nDemo data ready. All accounts use the same password.")
}

func buildConnString() string {
	host := getEnvOrDefault("PGHOST", "localhost")
	port := getEnvOrDefault("PGPORT", "5432")
	user := getEnvOrDefault("PGUSER", "connecta")
	password := os.Getenv("PGPASSWORD")
	dbname := getEnvOrDefault("PGDATABASE", "connecta")

	connStr := fmt.Sprintf("host=%s port=%s user=%s dbname=%s sslmode=disable",
		host, port, user, dbname)
	if password != "" {
		connStr += fmt.Sprintf(" password=%s", password)
	}
	return connStr
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
