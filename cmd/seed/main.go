package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"

	"waflens/internal/catalog"
	"waflens/internal/config"
	"waflens/internal/domain/models"
	"waflens/internal/domain/services"
	"waflens/internal/repository/postgres"
	"waflens/internal/service"
	serviceauth "waflens/internal/service/auth"
	"waflens/migrations"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
)

func main() {
	// Parse command-line flags
	subject := flag.String("subject", "", "Subject id (Firebase uid) that will own the seeded assessments")
	dropTables := flag.Bool("drop-tables", false, "Drop all tables before seeding (fresh start)")
	schemaOnly := flag.Bool("schema-only", false, "Only apply migrations, don't seed assessments")
	clearData := flag.Bool("clear-data", false, "Delete the subject's assessments (keep schema)")
	flag.Parse()

	// Load .env file
	_ = godotenv.Load()

	cfg := config.Load()

	// SAFETY: Prevent destructive operations in production
	if cfg.Environment == "prod" && (*dropTables || *clearData) {
		log.Fatalf("🚫 BLOCKED: Cannot run destructive operations (--drop-tables or --clear-data) in production environment")
	}
	if *subject == "" && !*schemaOnly {
		log.Fatalf("--subject is required unless --schema-only is set")
	}
	if cfg.DatabaseURL == "" {
		log.Fatalf("DATABASE_URL is required")
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	log.Printf("🌱 Seeding database (environment: %s, prefix: %s)", cfg.Environment, cfg.TablePrefix)

	ctx := context.Background()
	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL, logger)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	tables := postgres.NewTableNames(cfg.TablePrefix)

	if *dropTables {
		log.Println("🗑️  Dropping all tables...")
		if err := dropAllTables(ctx, pool, tables); err != nil {
			log.Fatalf("Failed to drop tables: %v", err)
		}
	}

	log.Println("📋 Applying migrations...")
	if err := postgres.Migrate(ctx, pool, migrations.FS, tables, logger); err != nil {
		log.Fatalf("Failed to migrate: %v", err)
	}

	if *schemaOnly {
		log.Println("✅ Schema setup complete (schema-only mode)")
		return
	}

	if *clearData {
		n, err := clearSubjectData(ctx, pool, tables, *subject)
		if err != nil {
			log.Fatalf("Failed to clear data: %v", err)
		}
		log.Printf("✅ Deleted %d assessments of %s", n, *subject)
		return
	}

	registry, err := catalog.NewRegistry()
	if err != nil {
		log.Fatalf("Failed to load catalog: %v", err)
	}

	repoConfig := &postgres.RepositoryConfig{
		Pool:   pool,
		Tables: tables,
		Logger: logger,
	}
	assessmentService := service.NewAssessmentService(
		postgres.NewAssessmentRepository(repoConfig),
		postgres.NewTransactionManager(pool, logger),
		registry,
		serviceauth.NewOwnerGuard(),
		logger,
	)

	// Seed through the service so ownership and validation match the API
	owner := &models.Identity{SubjectID: *subject}
	for i, seed := range seedAssessments() {
		created, err := assessmentService.CreateAssessment(ctx, owner, &services.CreateAssessmentRequest{
			PillarID:  seed.pillarID,
			Responses: seed.responses,
		})
		if err != nil {
			log.Printf("❌ Failed to create %s assessment: %v", seed.pillarID, err)
			continue
		}

		if seed.status != models.StatusInProgress || seed.score != nil {
			status := seed.status
			_, err = assessmentService.UpdateAssessment(ctx, owner, created.ID, &services.UpdateAssessmentRequest{
				Status: &status,
				Score:  services.OptionalInt{Present: seed.score != nil, Value: seed.score},
			})
			if err != nil {
				log.Printf("❌ Failed to update %s assessment: %v", seed.pillarID, err)
				continue
			}
		}

		log.Printf("✅ Created assessment %d: %s (ID: %s, status: %s)", i+1, seed.pillarID, created.ID, seed.status)
	}

	log.Println("🎉 Seeding complete!")
}

// dropAllTables drops the assessment and migration bookkeeping tables
func dropAllTables(ctx context.Context, pool *pgxpool.Pool, tables *postgres.TableNames) error {
	for _, table := range []string{tables.Assessments, tables.Migrations} {
		if _, err := pool.Exec(ctx, "DROP TABLE IF EXISTS "+table+" CASCADE"); err != nil {
			return err
		}
		log.Printf("  ✓ Dropped %s", table)
	}
	return nil
}

// clearSubjectData deletes every assessment owned by subject
func clearSubjectData(ctx context.Context, pool *pgxpool.Pool, tables *postgres.TableNames, subject string) (int64, error) {
	tag, err := pool.Exec(ctx, "DELETE FROM "+tables.Assessments+" WHERE owner_subject_id = $1", subject)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

type seedAssessment struct {
	pillarID  string
	status    models.AssessmentStatus
	score     *int
	responses []models.Response
}

func seedAssessments() []seedAssessment {
	return []seedAssessment{
		{
			pillarID: "security",
			status:   models.StatusCompleted,
			score:    intPtr(72),
			responses: []models.Response{
				{"question_id": "sec-1", "question": "Is MFA enforced for all users?", "answer": "partial"},
				{"question_id": "sec-2", "question": "Is data encrypted at rest?", "answer": "yes"},
				{"question_id": "sec-3", "question": "Are network boundaries segmented?", "answer": "yes"},
				{"question_id": "sec-4", "question": "Are security events centrally logged?", "answer": "no"},
			},
		},
		{
			pillarID: "reliability",
			status:   models.StatusInProgress,
			responses: []models.Response{
				{"question_id": "rel-1", "question": "Are workloads deployed across zones?", "answer": "yes"},
				{"question_id": "rel-2", "question": "Are backups tested regularly?", "answer": "no"},
			},
		},
		{
			pillarID:  "cost-optimization",
			status:    models.StatusInProgress,
			responses: []models.Response{},
		},
		{
			pillarID: "operational-excellence",
			status:   models.StatusArchived,
			score:    intPtr(55),
			responses: []models.Response{
				{"question_id": "ops-1", "question": "Is infrastructure defined as code?", "answer": "partial"},
			},
		},
	}
}

func intPtr(n int) *int {
	return &n
}
