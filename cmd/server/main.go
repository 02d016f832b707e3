package main

import (
	"context"
	"database/sql"
	"flag"
	"log"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"google.golang.org/grpc"

	"github.com/Snehil208001/Gr-nZimmer/internal/audit"
	auditrepo "github.com/Snehil208001/Gr-nZimmer/internal/audit/repository"
	"github.com/Snehil208001/Gr-nZimmer/internal/config"
	"github.com/Snehil208001/Gr-nZimmer/internal/db"
	"github.com/Snehil208001/Gr-nZimmer/internal/db/migrate"
	devicerepo "github.com/Snehil208001/Gr-nZimmer/internal/device/repository"
	"github.com/Snehil208001/Gr-nZimmer/internal/devotp"
	devotphandler "github.com/Snehil208001/Gr-nZimmer/internal/devotp/handler"
	"github.com/Snehil208001/Gr-nZimmer/internal/federated"
	identityrepo "github.com/Snehil208001/Gr-nZimmer/internal/identity/repository"
	identityservice "github.com/Snehil208001/Gr-nZimmer/internal/identity/service"
	"github.com/Snehil208001/Gr-nZimmer/internal/memstore"
	phonerepo "github.com/Snehil208001/Gr-nZimmer/internal/phoneauth/repository"
	"github.com/Snehil208001/Gr-nZimmer/internal/phoneauth/sms"
	policyengine "github.com/Snehil208001/Gr-nZimmer/internal/policy/engine"
	"github.com/Snehil208001/Gr-nZimmer/internal/security"
	"github.com/Snehil208001/Gr-nZimmer/internal/server"
	"github.com/Snehil208001/Gr-nZimmer/internal/server/interceptors"
	sessionrepo "github.com/Snehil208001/Gr-nZimmer/internal/session/repository"
	"github.com/Snehil208001/Gr-nZimmer/internal/telemetry"
	telemetryotel "github.com/Snehil208001/Gr-nZimmer/internal/telemetry/otel"
	"github.com/Snehil208001/Gr-nZimmer/internal/telemetry/producer"
	userrepo "github.com/Snehil208001/Gr-nZimmer/internal/user/repository"
)

const janitorInterval = time.Minute

type repos struct {
	users      userrepo.Repository
	identities identityrepo.Repository
	devices    devicerepo.Repository
	sessions   sessionrepo.Repository
	challenges phonerepo.Repository
	audit      auditrepo.Repository
}

func main() {
	runMigrations := flag.Bool("migrate", false, "Apply schema migrations before serving (requires DATABASE_URL)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	ctx := context.Background()

	providers, err := telemetryotel.NewProviders(ctx, telemetryotel.Settings{
		Endpoint:    cfg.OTLPEndpoint,
		Insecure:    cfg.OTLPInsecure,
		ServiceName: cfg.ServiceName,
		Environment: cfg.Env,
	})
	if err != nil {
		log.Fatalf("otel: %v", err)
	}
	providers.SetGlobal()

	var database *sql.DB
	var r repos
	if cfg.DatabaseURL != "" {
		if *runMigrations {
			if err := migrate.Run(cfg.DatabaseURL, migrate.Up); err != nil {
				log.Fatalf("migrate: %v", err)
			}
		}
		database, err = db.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("db: %v", err)
		}
		defer database.Close()
		r = repos{
			users:      userrepo.NewPostgresRepository(database),
			identities: identityrepo.NewPostgresRepository(database),
			devices:    devicerepo.NewPostgresRepository(database),
			sessions:   sessionrepo.NewPostgresRepository(database),
			challenges: phonerepo.NewPostgresRepository(database),
			audit:      auditrepo.NewPostgresRepository(database),
		}
	} else {
		if cfg.Env == "production" {
			log.Fatal("config: DATABASE_URL is required when APP_ENV=production")
		}
		log.Println("DATABASE_URL not set; using in-memory store (data is lost on restart)")
		store := memstore.New()
		r = repos{store.Users, store.Identities, store.Devices, store.Sessions, store.Challenges, store.Audit}
	}

	keys, err := loadKeys(cfg)
	if err != nil {
		log.Fatalf("jwt keys: %v", err)
	}
	tokens, err := security.NewTokenProvider(keys, cfg.JWTIssuer, cfg.JWTAudience, cfg.AccessTTL(), cfg.RefreshTTL())
	if err != nil {
		log.Fatalf("token provider: %v", err)
	}

	policy := ""
	if cfg.PolicyFile != "" {
		if policy, err = policyengine.LoadPolicyFile(cfg.PolicyFile); err != nil {
			log.Fatalf("policy: %v", err)
		}
	}
	evaluator, err := policyengine.NewOPAEvaluator(ctx, policy, cfg.DefaultTrustTTLDays)
	if err != nil {
		log.Fatalf("policy: %v", err)
	}

	var smsSender identityservice.OTPSender
	var devStore devotp.Store
	var devHandler *devotphandler.Server
	if cfg.OTPReturnToClient {
		log.Println("OTP_RETURN_TO_CLIENT enabled: OTPs are readable via DevService/GetOTP, no SMS is sent")
		store := devotp.NewMemoryStore()
		devStore, devHandler = store, devotphandler.NewServer(store)
	} else if cfg.SMSLocalAPIKey != "" {
		smsSender = sms.NewSMSLocalClient(cfg.SMSLocalAPIKey, cfg.SMSLocalBaseURL, cfg.SMSLocalSender)
	} else {
		log.Println("SMS_LOCAL_API_KEY not set; SendOTP will fail with Unavailable")
	}

	var googleVerifier identityservice.GoogleVerifier
	if ids := cfg.GoogleClientIDList(); len(ids) > 0 {
		v, err := federated.NewGoogleVerifier(cfg.GoogleJWKSURL, ids, nil)
		if err != nil {
			log.Fatalf("google verifier: %v", err)
		}
		googleVerifier = v
	}

	metrics, err := telemetryotel.NewAuthMetrics(providers.MeterProvider)
	if err != nil {
		log.Fatalf("otel metrics: %v", err)
	}
	emitters := telemetry.Multi{telemetryotel.NewEventEmitter(providers.LoggerProvider), metrics}
	kafkaProducer := producer.NewKafkaProducer(cfg.TelemetryKafkaBrokersList(), cfg.TelemetryKafkaTopic)
	if kafkaProducer != nil {
		emitters = append(emitters, kafkaProducer)
	}

	authSvc := identityservice.NewAuthService(
		r.users, r.identities, r.sessions, r.devices, r.challenges,
		evaluator, smsSender, googleVerifier,
		security.NewHasher(cfg.BcryptCost), tokens, devStore,
		audit.NewLogger(r.audit, interceptors.ClientIP),
		identityservice.Config{
			RefreshTTL:          cfg.RefreshTTL(),
			ChallengeTTL:        cfg.ChallengeTTL(),
			MaxAttempts:         cfg.OTPMaxAttempts,
			DefaultTrustTTLDays: cfg.DefaultTrustTTLDays,
			OTPReturnToClient:   cfg.OTPReturnToClient,
		},
	)
	authSvc.SetEventEmitter(emitters)

	deps := server.Deps{Auth: authSvc, HealthPolicyChecker: evaluator}
	if database != nil {
		deps.HealthPinger = database
	}
	if devHandler != nil {
		deps.DevOTPHandler = devHandler
	}

	lis, err := net.Listen("tcp", cfg.GRPCAddr)
	if err != nil {
		log.Fatalf("listen: %v", err)
	}
	defer lis.Close()

	s := grpc.NewServer(server.ServerOptions(server.InterceptorDeps{
		Tokens:    tokens,
		Sessions:  r.sessions,
		AuditRepo: r.audit,
		Events:    emitters,
	})...)
	server.RegisterServices(s, deps)

	janitorCtx, stopJanitor := context.WithCancel(ctx)
	go runJanitor(janitorCtx, authSvc)

	go func() {
		log.Printf("gRPC server listening on %s", cfg.GRPCAddr)
		if err := s.Serve(lis); err != nil {
			log.Fatalf("serve: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("shutting down gRPC server...")
	stopJanitor()
	s.GracefulStop()

	drainCtx, cancel := context.WithTimeout(ctx, telemetry.ShutdownDrainDuration)
	if err := telemetry.Drain(drainCtx); err != nil {
		log.Printf("telemetry: drain: %v", err)
	}
	cancel()
	if kafkaProducer != nil {
		if err := kafkaProducer.Close(); err != nil {
			log.Printf("kafka producer close: %v", err)
		}
	}
	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := providers.Shutdown(shutdownCtx); err != nil {
		log.Printf("otel shutdown: %v", err)
	}
	log.Println("gRPC server stopped")
}

// loadKeys reads the configured signing keys. Outside production a missing pair is
// replaced by an ephemeral one so a local server starts with no setup.
func loadKeys(cfg *config.Config) (security.KeyPair, error) {
	if cfg.JWTPrivateKey == "" && cfg.JWTPublicKey == "" && cfg.Env != "production" {
		log.Println("JWT_PRIVATE_KEY/JWT_PUBLIC_KEY not set; using an ephemeral ES256 key pair")
		return security.GenerateKeyPair()
	}
	return security.LoadKeyPair(cfg.JWTPrivateKey, cfg.JWTPublicKey)
}

// runJanitor deletes expired OTP challenges until ctx is done.
func runJanitor(ctx context.Context, authSvc *identityservice.AuthService) {
	ticker := time.NewTicker(janitorInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := authSvc.PurgeExpiredChallenges(ctx)
			if err != nil {
				log.Printf("janitor: purge expired challenges: %v", err)
			} else if n > 0 {
				log.Printf("janitor: purged %d expired challenges", n)
			}
		}
	}
}
