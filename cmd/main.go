package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/weznn/Blockchain-BasedAutomotiveDamageTrackingSystem3DAdvancedModel/internal/config"
	"github.com/weznn/Blockchain-BasedAutomotiveDamageTrackingSystem3DAdvancedModel/internal/damage"
	"github.com/weznn/Blockchain-BasedAutomotiveDamageTrackingSystem3DAdvancedModel/internal/ledger"
	"github.com/weznn/Blockchain-BasedAutomotiveDamageTrackingSystem3DAdvancedModel/internal/models"
)

var errChainInvalid = errors.New("chain failed verification")

// Sample records used when no --record flag is given.
var defaultRecords = []string{
	"ABC123|Servis A|Ön tampon hasarı ve sol kapı çizik",
	"ABC123|Servis B|Arka far değişimi",
	"XYZ789|Servis C|Tavan hasarı ve şasi kontrolü",
}

type options struct {
	EnvFile   string
	Records   []string
	Vehicle   string
	Digest    string
	LogLevel  string
	LogFormat string
	Export    bool
}

func (o *options) AddFlags(fs *pflag.FlagSet) {
	fs.StringVar(&o.EnvFile, "env-file", ".env", "Optional dotenv file to load before reading the environment.")
	fs.StringArrayVar(&o.Records, "record", nil, "Maintenance record as 'vehicle|provider|description'. Repeatable.")
	fs.StringVar(&o.Vehicle, "vehicle", "", "Only assess damage for this vehicle ID.")
	fs.StringVar(&o.Digest, "digest", "", "Block digest: sha256, sha3-256 or blake2b-256. Overrides LEDGER_DIGEST.")
	fs.StringVar(&o.LogLevel, "log-level", "", "Log level. Overrides LOG_LEVEL.")
	fs.StringVar(&o.LogFormat, "log-format", "", "Log format, text or json. Overrides LOG_FORMAT.")
	fs.BoolVar(&o.Export, "export", false, "Write the chain as JSON to stdout after verification.")
}

func newLedgerCommand(out io.Writer) *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{
		Use:           "damage-ledger",
		Short:         "Record vehicle maintenance in a hash chain and assess body damage.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(opts, out)
		},
	}
	opts.AddFlags(cmd.Flags())
	return cmd
}

func run(opts *options, out io.Writer) error {
	cfg, err := config.Load(opts.EnvFile)
	if err != nil {
		return err
	}
	if opts.LogLevel != "" {
		cfg.LogLevel = opts.LogLevel
	}
	if opts.LogFormat != "" {
		cfg.LogFormat = opts.LogFormat
	}
	if opts.Digest != "" {
		cfg.DigestName = opts.Digest
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := log.New()
	logger.SetOutput(out)
	if err := cfg.ConfigureLogger(logger); err != nil {
		return err
	}
	if opts.Export {
		logger.SetOutput(os.Stderr)
	}

	chain := ledger.New(
		ledger.WithDigest(cfg.Digest),
		ledger.WithLogger(logger.WithField("component", "ledger")),
	)

	records := opts.Records
	if len(records) == 0 {
		records = defaultRecords
	}
	for _, raw := range records {
		record, err := parseRecord(raw)
		if err != nil {
			return err
		}
		if _, err := chain.Append(record); err != nil {
			return err
		}
	}

	blocks := chain.Blocks()
	for _, b := range blocks {
		displayBlock(logger, b)
	}

	violations := chain.Audit()
	for _, v := range violations {
		logger.WithField("violation", v.String()).Error("Integrity violation")
	}

	assessment := damage.AssessChain(blocks, opts.Vehicle)
	logger.WithFields(assessmentFields(assessment)).WithField("vehicle_id", opts.Vehicle).Info("Detected damage")

	if len(violations) > 0 {
		return fmt.Errorf("%w: %d violation(s)", errChainInvalid, len(violations))
	}
	logger.WithFields(log.Fields{
		"blocks": len(blocks),
		"digest": chain.Digest(),
	}).Info("Chain verified")

	if opts.Export {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(blocks)
	}
	return nil
}

func parseRecord(raw string) (models.MaintenanceRecord, error) {
	parts := strings.SplitN(raw, "|", 3)
	if len(parts) != 3 {
		return models.MaintenanceRecord{}, fmt.Errorf("invalid record %q: want 'vehicle|provider|description'", raw)
	}
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	if parts[0] == "" {
		return models.MaintenanceRecord{}, fmt.Errorf("invalid record %q: vehicle ID is empty", raw)
	}
	return models.NewMaintenanceRecord(parts[0], parts[1], parts[2]), nil
}

func displayBlock(logger *log.Logger, b ledger.Block) {
	fields := log.Fields{
		"index":         b.Index(),
		"timestamp":     b.Timestamp(),
		"hash":          b.Hash(),
		"previous_hash": b.PreviousHash(),
	}
	if record, ok := b.Record(); ok {
		fields["vehicle_id"] = record.VehicleID()
		fields["service_provider"] = record.ServiceProvider()
		fields["description"] = record.Description()
	} else {
		fields["payload"] = ledger.GenesisMarker
	}
	logger.WithFields(fields).Info("Block")
}

func assessmentFields(a damage.Assessment) log.Fields {
	fields := log.Fields{}
	for _, region := range damage.Regions {
		if severity, ok := a[region]; ok {
			fields["damage_"+string(region)] = string(severity)
		}
	}
	return fields
}

func main() {
	if err := newLedgerCommand(os.Stdout).Execute(); err != nil {
		log.WithError(err).Fatal("Ledger run failed")
	}
}
