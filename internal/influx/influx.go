// Package influx reports mission statistics to InfluxDB. When the server is
// unreachable the reporter degrades to a gzip line-protocol backup file and
// never fails the evaluation path.
package influx

import (
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	influxdb2_api "github.com/influxdata/influxdb-client-go/v2/api"
	influxdb2_write "github.com/influxdata/influxdb-client-go/v2/api/write"
	"github.com/influxdata/influxdb-client-go/v2/domain"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

// DefaultBucketNames are the buckets the engine writes to.
var DefaultBucketNames = []string{
	"mission_stats",
	"program_stats",
}

// Reporter handles InfluxDB connections and writes.
type Reporter struct {
	Client       influxdb2.Client
	Writers      map[string]influxdb2_api.WriteAPI
	BackupWriter *gzip.Writer
	IsValid      bool
	BucketNames  []string
	Logger       zerolog.Logger
	BackupPath   string
}

// NewReporter creates a new InfluxDB reporter.
func NewReporter(log zerolog.Logger, backupPath string) *Reporter {
	return &Reporter{
		Writers:     make(map[string]influxdb2_api.WriteAPI),
		BucketNames: DefaultBucketNames,
		Logger:      log,
		BackupPath:  backupPath,
	}
}

// Connect establishes a connection to InfluxDB.
func (r *Reporter) Connect() error {
	if !viper.GetBool("influx.enabled") {
		return errors.New("influx.enabled is false")
	}

	r.Client = influxdb2.NewClientWithOptions(
		fmt.Sprintf(
			"%s://%s:%s",
			viper.GetString("influx.protocol"),
			viper.GetString("influx.host"),
			viper.GetString("influx.port"),
		),
		viper.GetString("influx.token"),
		influxdb2.DefaultOptions().
			SetBatchSize(100).
			SetFlushInterval(1000),
	)

	// validate client connection health
	running, err := r.Client.Ping(context.Background())

	if err != nil || !running {
		r.IsValid = false
		// create backup writer
		if r.BackupWriter == nil {
			r.Logger.Info().Str("backupPath", r.BackupPath).
				Msg("Failed to initialize InfluxDB client, writing to backup file")

			file, err := os.OpenFile(r.BackupPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
			if err != nil {
				return fmt.Errorf("error creating backup file: %v", err)
			}
			r.BackupWriter = gzip.NewWriter(file)
		}
	} else {
		r.IsValid = true
	}

	if r.IsValid {
		if err := r.setupOrganizationAndBuckets(); err != nil {
			return err
		}
		r.createWriters()
		r.Logger.Info().Msg("InfluxDB client initialized")
	} else {
		r.Logger.Warn().Msg("InfluxDB client failed to initialize, using backup writer")
	}

	return nil
}

// Close flushes writers and the backup file.
func (r *Reporter) Close() error {
	for _, w := range r.Writers {
		w.Flush()
	}
	if r.Client != nil {
		r.Client.Close()
	}
	if r.BackupWriter != nil {
		return r.BackupWriter.Close()
	}
	return nil
}

func (r *Reporter) setupOrganizationAndBuckets() error {
	ctx := context.Background()
	orgName := viper.GetString("influx.org")

	// ensure org exists
	_, err := r.Client.OrganizationsAPI().FindOrganizationByName(ctx, orgName)
	if err != nil {
		r.Logger.Info().Str("org", orgName).Msg("Organization not found, creating")
		_, err = r.Client.OrganizationsAPI().CreateOrganizationWithName(ctx, orgName)
		if err != nil {
			r.Logger.Error().Err(err).Str("org", orgName).Msg("Error creating organization")
			return err
		}
	}

	influxOrg, err := r.Client.OrganizationsAPI().FindOrganizationByName(ctx, orgName)
	if err != nil {
		r.Logger.Error().Err(err).Str("org", orgName).Msg("Error getting organization")
		return err
	}

	// ensure buckets exist with 90 day retention
	for _, bucket := range r.BucketNames {
		_, err = r.Client.BucketsAPI().FindBucketByName(ctx, bucket)
		if err != nil {
			r.Logger.Info().Str("bucket", bucket).Msg("Bucket not found, creating")

			rule := domain.RetentionRuleTypeExpire
			_, err = r.Client.BucketsAPI().CreateBucketWithName(ctx, influxOrg, bucket, domain.RetentionRule{
				Type:         &rule,
				EverySeconds: 60 * 60 * 24 * 90, // 90 days
			})
			if err != nil {
				r.Logger.Error().Err(err).Str("bucket", bucket).Msg("Error creating bucket")
				return err
			}
		}
	}

	return nil
}

func (r *Reporter) createWriters() {
	orgName := viper.GetString("influx.org")
	for _, bucket := range r.BucketNames {
		r.Writers[bucket] = r.Client.WriteAPI(orgName, bucket)

		errorsCh := r.Writers[bucket].Errors()
		go func(bucketName string, errorsCh <-chan error) {
			for writeErr := range errorsCh {
				r.Logger.Error().Err(writeErr).Str("bucket", bucketName).
					Msg("Error sending data to InfluxDB")
			}
		}(bucket, errorsCh)
	}

	r.Logger.Debug().Msg("InfluxDB writers initialized")
}

// WritePoint writes a point to InfluxDB or the backup file.
func (r *Reporter) WritePoint(bucket string, point *influxdb2_write.Point) error {
	if r.IsValid {
		if _, ok := r.Writers[bucket]; !ok {
			return fmt.Errorf("influxDB bucket '%s' not registered", bucket)
		}
		r.Writers[bucket].WritePoint(point)
		return nil
	}

	if r.BackupWriter == nil {
		return fmt.Errorf("influxDB client not initialized and backup writer not available")
	}
	lineProtocol := influxdb2_write.PointToLineProtocol(point, time.Nanosecond)
	if _, err := r.BackupWriter.Write([]byte(lineProtocol + "\n")); err != nil {
		return fmt.Errorf("error writing to InfluxDB backup file: %s", err)
	}
	return nil
}

// ReportMissionCompleted writes one point per mission completion.
func (r *Reporter) ReportMissionCompleted(mission, vesselID string, reward, balance int64) error {
	point := influxdb2_write.NewPointWithMeasurement("mission_completed").
		AddTag("mission", mission).
		AddTag("vessel", vesselID).
		AddField("reward", reward).
		AddField("balance", balance).
		SetTime(time.Now())
	return r.WritePoint("mission_stats", point)
}

// ReportGoalCredited writes one point per goal credit.
func (r *Reporter) ReportGoalCredited(mission, goalID, vesselID string, reward int64) error {
	point := influxdb2_write.NewPointWithMeasurement("goal_credited").
		AddTag("mission", mission).
		AddTag("goal", goalID).
		AddTag("vessel", vesselID).
		AddField("reward", reward).
		SetTime(time.Now())
	return r.WritePoint("mission_stats", point)
}

// ReportBalance writes the current program balance.
func (r *Reporter) ReportBalance(programName string, balance int64) error {
	point := influxdb2_write.NewPointWithMeasurement("balance").
		AddTag("program", programName).
		AddField("money", balance).
		SetTime(time.Now())
	return r.WritePoint("program_stats", point)
}
