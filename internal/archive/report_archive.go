// Package archive stores assembled weekly reports in MongoDB.
package archive

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	errorvalues "github.com/limbo/accountability/internal/error_values"
	"github.com/limbo/accountability/pkg/cleanup"
	"github.com/limbo/accountability/pkg/entity"
)

const collectionName = "weekly_reports"

// Connect opens a client that uses the archive registry. The client is disconnected by cleanup.CleanUp.
func Connect(ctx context.Context, uri, database string) (*mongo.Database, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri).SetRegistry(NewRegistry()))
	if err != nil {
		return nil, errors.New("connecting to mongo error: " + err.Error())
	}
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		client.Disconnect(context.Background())
		return nil, errors.New("pinging mongo error: " + err.Error())
	}
	cleanup.Register(&cleanup.Job{
		Name: "disconnecting mongo",
		F: func() error {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return client.Disconnect(ctx)
		},
	})
	return client.Database(database), nil
}

type ReportArchive struct {
	reports *mongo.Collection
}

func NewReportArchive(db *mongo.Database) *ReportArchive {
	return &ReportArchive{
		reports: db.Collection(collectionName),
	}
}

// Publish stores report, replacing an earlier run of the same cohort and week.
func (a *ReportArchive) Publish(ctx context.Context, report *entity.WeeklyAccountabilityReport) error {
	if report.Cohort == "" {
		return nil
	}
	opts := options.Replace().SetUpsert(true)
	filter := bson.M{"cohort": report.Cohort, "weekStart": report.WeekStart}
	if _, err := a.reports.ReplaceOne(ctx, filter, report, opts); err != nil {
		return errors.New("archiving report error: " + err.Error())
	}
	return nil
}

// Latest returns the most recently generated report, of cohort when it is not empty.
func (a *ReportArchive) Latest(ctx context.Context, cohort string) (*entity.WeeklyAccountabilityReport, error) {
	filter := bson.M{}
	if cohort != "" {
		filter["cohort"] = cohort
	}
	opts := options.FindOne().SetSort(bson.D{{Key: "generatedAt", Value: -1}})
	var report entity.WeeklyAccountabilityReport
	err := a.reports.FindOne(ctx, filter, opts).Decode(&report)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, errorvalues.ErrReportNotFound
	}
	if err != nil {
		return nil, errors.New("reading archived report error: " + err.Error())
	}
	return &report, nil
}
