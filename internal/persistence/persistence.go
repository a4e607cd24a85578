package persistence

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/silosim/silotherm/internal/analysis"
	"github.com/silosim/silotherm/internal/simulation"
	"github.com/silosim/silotherm/internal/ui"
)

const (
	BucketReports      = "reports"
	BucketTrajectories = "trajectories"
)

type Persistence interface {
	Init() (err error)

	SaveReport(scenarioId string, report analysis.Report) (err error)
	LoadReport(scenarioId string) (report *analysis.Report, err error)
	DeleteReport(scenarioId string) (err error)

	SaveTrajectory(scenarioId string, trajectory simulation.Trajectory) (err error)
	LoadTrajectory(scenarioId string) (trajectory simulation.Trajectory, err error)
	DeleteTrajectory(scenarioId string) (err error)
}

type persistence struct {
	dbPath string
}

func NewPersistence(dbPath string) Persistence {
	p := &persistence{
		dbPath: dbPath,
	}
	return p
}

func (p persistence) Init() (err error) {
	parentDir := filepath.Dir(p.dbPath)
	if err = os.MkdirAll(parentDir, 0700); err != nil {
		return err
	}
	db, err := p.openPersistence()
	if err != nil {
		return err
	}
	defer db.Close()
	return err
}

func (p persistence) openPersistence() (*bolt.DB, error) {
	db, err := bolt.Open(p.dbPath, 0600, &bolt.Options{Timeout: 1 * time.Minute})
	if err != nil {
		ui.Error("Could not open database file: %s", p.dbPath)
		return nil, err
	}
	return db, nil
}

func (p persistence) SaveReport(scenarioId string, report analysis.Report) (err error) {
	return p.save(BucketReports, scenarioId, report)
}

func (p persistence) LoadReport(scenarioId string) (report *analysis.Report, err error) {
	data, err := p.load(BucketReports, scenarioId)
	if err != nil {
		return nil, err
	}
	report = &analysis.Report{}
	if err = json.Unmarshal(data, report); err != nil {
		return nil, err
	}
	return report, nil
}

func (p persistence) DeleteReport(scenarioId string) (err error) {
	return p.delete(BucketReports, scenarioId)
}

func (p persistence) SaveTrajectory(scenarioId string, trajectory simulation.Trajectory) (err error) {
	return p.save(BucketTrajectories, scenarioId, trajectory)
}

func (p persistence) LoadTrajectory(scenarioId string) (trajectory simulation.Trajectory, err error) {
	data, err := p.load(BucketTrajectories, scenarioId)
	if err != nil {
		return nil, err
	}
	if err = json.Unmarshal(data, &trajectory); err != nil {
		return nil, err
	}
	return trajectory, nil
}

func (p persistence) DeleteTrajectory(scenarioId string) (err error) {
	return p.delete(BucketTrajectories, scenarioId)
}

func (p persistence) save(bucket string, key string, value interface{}) (err error) {
	db, err := p.openPersistence()
	if err != nil {
		return err
	}
	defer db.Close()

	data, err := json.Marshal(value)
	if err != nil {
		return err
	}

	return db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists([]byte(bucket))
		if err != nil {
			return err
		}
		return b.Put([]byte(key), data)
	})
}

func (p persistence) load(bucket string, key string) (data []byte, err error) {
	db, err := p.openPersistence()
	if err != nil {
		return nil, err
	}
	defer db.Close()

	err = db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucket))
		if b == nil {
			return os.ErrNotExist
		}
		value := b.Get([]byte(key))
		if value == nil {
			return fmt.Errorf("no data for key: %s", key)
		}
		data = append(data, value...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return data, nil
}

func (p persistence) delete(bucket string, key string) (err error) {
	db, err := p.openPersistence()
	if err != nil {
		return err
	}
	defer db.Close()

	return db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucket))
		if b == nil {
			return nil
		}
		return b.Delete([]byte(key))
	})
}
