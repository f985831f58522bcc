package main

import (
	"errors"
	"flag"
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"stockplot/internal/config"
	"stockplot/internal/database"
	"stockplot/internal/degiro"
	"stockplot/internal/models"
	"stockplot/internal/repository"
	"stockplot/internal/secrets"
	"stockplot/internal/sync"
	"stockplot/internal/transport"
)

const dateFlagLayout = "2006-01-02"

func main() {
	var (
		username = flag.String("username", "", "broker username (falls back to DEGIRO_USERNAME, then stored credentials)")
		password = flag.String("password", "", "broker password (falls back to DEGIRO_PASSWORD, then stored credentials)")
		fromFlag = flag.String("from", "", "start of the sync range, YYYY-MM-DD (default: 30 days ago)")
		toFlag   = flag.String("to", "", "end of the sync range, YYYY-MM-DD (default: today)")
		save     = flag.Bool("save-credentials", false, "encrypt and store the credentials for later runs")
	)
	flag.Parse()

	// Missing .env is fine; the environment may be set directly.
	_ = godotenv.Load()

	cfg := config.New()

	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if !cfg.IsDevelopment {
		log.SetFormatter(&logrus.JSONFormatter{})
	}

	if err := run(cfg, log, *username, *password, *fromFlag, *toFlag, *save); err != nil {
		log.WithError(err).Fatal("sync failed")
	}
}

func run(cfg *config.Config, log *logrus.Logger, username, password, fromFlag, toFlag string, saveCredentials bool) error {
	start, end, err := parseRange(fromFlag, toFlag)
	if err != nil {
		return err
	}

	db, err := database.New(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer db.Close()

	if err := db.RunMigrations(); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}

	encryptor, err := secrets.NewEncryptor(cfg.EncryptionSecret)
	if err != nil {
		return fmt.Errorf("initializing encryptor: %w", err)
	}
	credRepo := repository.NewCredentialRepository(db)

	username, password, err = resolveCredentials(cfg, credRepo, encryptor, username, password)
	if err != nil {
		return err
	}

	if saveCredentials {
		if err := storeCredentials(credRepo, encryptor, username, password); err != nil {
			return fmt.Errorf("storing credentials: %w", err)
		}
		log.WithField("username", username).Info("credentials stored")
	}

	service := sync.NewService(
		degiro.NewFactory(func() transport.Transport { return transport.NewClient() }),
		repository.NewTransactionRepository(db),
		repository.NewProductRepository(db),
		repository.NewSyncHistoryRepository(db),
		log,
	)

	result, err := service.Run(username, password, start, end)
	if err != nil {
		return err
	}

	log.WithFields(logrus.Fields{
		"run_id":       result.RunID,
		"transactions": result.TransactionsSynced,
		"products":     result.ProductsSynced,
	}).Info("sync complete")
	return nil
}

// resolveCredentials picks the first available source: flags, environment,
// then the encrypted store.
func resolveCredentials(
	cfg *config.Config,
	credRepo *repository.CredentialRepository,
	encryptor *secrets.Encryptor,
	username, password string,
) (string, string, error) {
	if username == "" {
		username = cfg.DegiroUsername
	}
	if password == "" {
		password = cfg.DegiroPassword
	}
	if username == "" {
		return "", "", errors.New("no username given: use -username or DEGIRO_USERNAME")
	}
	if password != "" {
		return username, password, nil
	}

	cred, err := credRepo.GetByUsername(username)
	if err != nil {
		return "", "", fmt.Errorf("loading stored credentials: %w", err)
	}
	if cred == nil {
		return "", "", fmt.Errorf("no password given and no stored credentials for %q", username)
	}

	password, err = encryptor.Decrypt(cred.PasswordCiphertext, cred.PasswordNonce, username)
	if err != nil {
		return "", "", fmt.Errorf("decrypting stored credentials: %w", err)
	}
	return username, password, nil
}

func storeCredentials(credRepo *repository.CredentialRepository, encryptor *secrets.Encryptor, username, password string) error {
	ciphertext, nonce, err := encryptor.Encrypt(password, username)
	if err != nil {
		return err
	}
	return credRepo.Save(&models.Credential{
		Username:           username,
		PasswordCiphertext: ciphertext,
		PasswordNonce:      nonce,
	})
}

func parseRange(fromFlag, toFlag string) (time.Time, time.Time, error) {
	now := time.Now().UTC()
	start := now.AddDate(0, 0, -30)
	end := now

	var err error
	if fromFlag != "" {
		start, err = time.Parse(dateFlagLayout, fromFlag)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid -from date %q: %w", fromFlag, err)
		}
	}
	if toFlag != "" {
		end, err = time.Parse(dateFlagLayout, toFlag)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid -to date %q: %w", toFlag, err)
		}
	}
	if end.Before(start) {
		return time.Time{}, time.Time{}, fmt.Errorf("sync range ends before it starts: %s to %s",
			start.Format(dateFlagLayout), end.Format(dateFlagLayout))
	}
	return start, end, nil
}
