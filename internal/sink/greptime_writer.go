package sink

import (
	"context"
	"log/slog"
	"strconv"

	greptime "github.com/GreptimeTeam/greptimedb-ingester-go"
	ingesterContext "github.com/GreptimeTeam/greptimedb-ingester-go/context"
	"github.com/GreptimeTeam/greptimedb-ingester-go/table"
	"github.com/GreptimeTeam/greptimedb-ingester-go/table/types"

	"gatewatch/internal/activity"
)

// GreptimeDBWriter records activity history to GreptimeDB via the
// ingester client. Each snapshot becomes one row per activity.
type GreptimeDBWriter struct {
	client greptime.Client
	db     string
	table  string
}

// NewGreptimeDBWriter creates a new GreptimeDB writer and auto-creates the table if needed.
func NewGreptimeDBWriter(endpoint, database string) (*GreptimeDBWriter, error) {
	ctx := ingesterContext.NewContext(context.Background())
	client, err := greptime.NewClient(ctx, &greptime.Config{
		Endpoint: endpoint,
	})
	if err != nil {
		return nil, err
	}

	// Auto-create table schema
	ddl := `
CREATE TABLE IF NOT EXISTS activity_history (
  activity_id STRING TAG,
  classification STRING TAG,
  solar_system_id STRING TAG,
  gate_name STRING,
  confidence DOUBLE,
  pilots DOUBLE,
  kill_count DOUBLE,
  total_value DOUBLE,
  last_kill TIMESTAMP,
  ts TIMESTAMP TIME INDEX
) WITH (ttl='30d')
`
	if _, err := client.SQL(ctx, ddl); err != nil {
		return nil, err
	}

	return &GreptimeDBWriter{
		client: client,
		db:     database,
		table:  "activity_history",
	}, nil
}

// WriteSnapshot inserts one row per activity in the snapshot.
func (w *GreptimeDBWriter) WriteSnapshot(snap activity.Snapshot) error {
	if len(snap.Activities) == 0 {
		return nil
	}

	ctx := ingesterContext.NewContext(context.Background())

	tbl := table.New(w.table)
	tbl.AddTagColumn("activity_id", types.StringType, 0)
	tbl.AddTagColumn("classification", types.StringType, 0)
	tbl.AddTagColumn("solar_system_id", types.StringType, 0)
	tbl.AddFieldColumn("gate_name", types.StringType)
	tbl.AddFieldColumn("confidence", types.Float64Type)
	tbl.AddFieldColumn("pilots", types.Float64Type)
	tbl.AddFieldColumn("kill_count", types.Float64Type)
	tbl.AddFieldColumn("total_value", types.Float64Type)
	tbl.AddFieldColumn("last_kill", types.TimestampType)
	tbl.SetTimeIndex("ts", types.TimestampType)

	for _, a := range snap.Activities {
		tbl.AppendTagValue("activity_id", a.ID)
		tbl.AppendTagValue("classification", string(a.Classification))
		tbl.AppendTagValue("solar_system_id", strconv.FormatInt(a.SolarSystemID, 10))
		tbl.AppendFieldValue("gate_name", a.GateName)
		tbl.AppendFieldValue("confidence", float64(a.Confidence))
		tbl.AppendFieldValue("pilots", float64(a.Pilots))
		tbl.AppendFieldValue("kill_count", float64(len(a.KillIDs)))
		tbl.AppendFieldValue("total_value", a.TotalValue)
		tbl.AppendFieldValue("last_kill", a.LastKill)
		tbl.AppendTimeIndex(snap.GeneratedAt)
	}

	if err := w.client.Write(ctx, w.db, []*table.Table{tbl}); err != nil {
		slog.Default().Error("greptimedb write failed", "error", err)
		return err
	}
	return nil
}
