package db

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"gorm.io/gorm/logger"
)

func TestOpenMigratesAllCollections(t *testing.T) {
	dsn := fmt.Sprintf("file:db-open-%d?mode=memory&cache=shared", time.Now().UnixNano())
	gdb, err := Open(dsn, logger.Silent)
	if err != nil {
		t.Fatalf("open failed: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			sqlDB.Close()
		}
	})

	for _, table := range []string{
		CollectionProjects, CollectionSkills, CollectionBlogs,
		CollectionComments, CollectionMessages, CollectionVisitors,
	} {
		if !gdb.Migrator().HasTable(table) {
			t.Fatalf("expected table %s to exist", table)
		}
	}
}

func TestBeforeCreateAssignsIDUnlessPreset(t *testing.T) {
	dsn := fmt.Sprintf("file:db-ids-%d?mode=memory&cache=shared", time.Now().UnixNano())
	gdb, err := Open(dsn, logger.Silent)
	if err != nil {
		t.Fatalf("open failed: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			sqlDB.Close()
		}
	})

	generated := Project{Title: "Generated"}
	if err := gdb.Create(&generated).Error; err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if len(generated.ID) != 36 {
		t.Fatalf("expected uuid id, got %q", generated.ID)
	}

	reserved := Project{Base: Base{ID: "interactive_ml"}, Title: "Reserved"}
	if err := gdb.Create(&reserved).Error; err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if reserved.ID != "interactive_ml" {
		t.Fatalf("expected preset id to be kept, got %q", reserved.ID)
	}
}

func TestInitCreatesParentDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "portfolio.db")
	gdb, err := Init(path)
	if err != nil {
		t.Fatalf("init failed: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			sqlDB.Close()
		}
		DB = nil
	})

	if _, err := os.Stat(filepath.Dir(path)); err != nil {
		t.Fatalf("expected parent dir to exist: %v", err)
	}
	if DB != gdb {
		t.Fatal("expected global DB to be set")
	}
}
