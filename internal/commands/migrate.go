package commands

import (
	"fmt"
	"log"

	"sitetrack/backend/internal/pkg/repository/postgresql"

	"github.com/pkg/errors"
)

// ErrHelp provides context that help was given.
var ErrHelp = errors.New("provided help")

type Scheme struct {
	Index       int
	Description string
	Query       string
}

var scheme = []Scheme{
	{
		Index:       1,
		Description: "Create table: workers.",
		Query: `
        CREATE TABLE IF NOT EXISTS workers (
            id serial primary key,
            employee_id text not null,
            full_name text,
            password text not null,
            role text not null,
            skill text,
            category text,
            phone text,
            home_latitude double precision,
            home_longitude double precision,
            travel_radius double precision,
            created_at timestamp default now(),
            created_by int references workers(id),
            updated_at timestamp,
            updated_by int references workers(id),
            deleted_at timestamp,
            deleted_by int references workers(id)
        );`,
	},
	{
		Index:       2,
		Description: "Unique employee_id for live workers.",
		Query: `
        CREATE UNIQUE INDEX IF NOT EXISTS workers_employee_id_idx
            ON workers (employee_id) WHERE deleted_at IS NULL;`,
	},
	{
		Index:       3,
		Description: "Create admin with employee_id: Admin01, password: 1",
		Query: `
        INSERT INTO workers(employee_id, role, password)
        SELECT 'Admin01', 'ADMIN', '$2a$10$NKtnMwDPFSQLG6uOi4Zqheru5Ygbj9TWFHjpl478rRSaO5cJ9QuH2'
        WHERE NOT EXISTS (SELECT employee_id FROM workers WHERE employee_id = 'Admin01');
        `,
	},
	{
		Index:       4,
		Description: "Create table: projects.",
		Query: `
        CREATE TABLE IF NOT EXISTS projects (
            id serial primary key,
            organization_id int,
            name text not null,
            latitude double precision not null,
            longitude double precision not null,
            radius_meters double precision not null,
            shift_start text,
            shift_end text,
            max_allowed_exits int,
            category_capacity int,
            photo text,
            created_at timestamp default now(),
            created_by int references workers(id),
            updated_at timestamp,
            updated_by int references workers(id),
            deleted_at timestamp,
            deleted_by int references workers(id)
        );`,
	},
	{
		Index:       5,
		Description: "Create table: project_breaks.",
		Query: `
        CREATE TABLE IF NOT EXISTS project_breaks (
            id serial primary key,
            project_id int not null references projects(id),
            start_time text not null,
            end_time text not null,
            reason text,
            created_at timestamp default now(),
            created_by int references workers(id),
            updated_at timestamp,
            updated_by int references workers(id),
            deleted_at timestamp,
            deleted_by int references workers(id)
        );`,
	},
	{
		Index:       6,
		Description: "Create table: project_members.",
		Query: `
        CREATE TABLE IF NOT EXISTS project_members (
            id serial primary key,
            project_id int not null references projects(id),
            worker_id int not null references workers(id),
            status text not null default 'PENDING',
            created_at timestamp default now(),
            created_by int references workers(id),
            updated_at timestamp,
            updated_by int references workers(id),
            deleted_at timestamp,
            deleted_by int references workers(id),
            unique (project_id, worker_id)
        );`,
	},
	{
		Index:       7,
		Description: "Create table: attendance_records.",
		Query: `
        CREATE TABLE IF NOT EXISTS attendance_records (
            id serial primary key,
            worker_id int not null references workers(id),
            project_id int not null references projects(id),
            work_day date not null,
            status text not null,
            worked_minutes int not null default 0,
            breach bool not null default false,
            exit_count int not null default 0,
            max_allowed_exits int not null default 0,
            origin text not null default 'AUTOMATIC',
            last_latitude double precision,
            last_longitude double precision,
            last_event_at timestamp,
            closed_at timestamp,
            created_at timestamp default now(),
            created_by int references workers(id),
            updated_at timestamp,
            updated_by int references workers(id),
            deleted_at timestamp,
            deleted_by int references workers(id)
        );
        CREATE UNIQUE INDEX IF NOT EXISTS attendance_records_day_idx
            ON attendance_records (worker_id, project_id, work_day)
            WHERE deleted_at IS NULL;`,
	},
	{
		Index:       8,
		Description: "Create table: attendance_sessions.",
		Query: `
        CREATE TABLE IF NOT EXISTS attendance_sessions (
            id serial primary key,
            attendance_id int not null references attendance_records(id),
            check_in_time timestamp not null,
            check_out_time timestamp,
            worked_minutes int not null default 0,
            created_at timestamp default now(),
            created_by int references workers(id),
            updated_at timestamp,
            updated_by int references workers(id),
            deleted_at timestamp,
            deleted_by int references workers(id)
        );`,
	},
	{
		Index:       9,
		Description: "At most one open session per attendance record.",
		Query: `
        CREATE UNIQUE INDEX IF NOT EXISTS attendance_sessions_open_idx
            ON attendance_sessions (attendance_id)
            WHERE check_out_time IS NULL AND deleted_at IS NULL;`,
	},
	{
		Index:       10,
		Description: "Create table: wage_rates.",
		Query: `
        CREATE TABLE IF NOT EXISTS wage_rates (
            id serial primary key,
            project_id int not null references projects(id),
            skill text not null,
            category text not null,
            hourly_rate numeric not null,
            created_at timestamp default now(),
            created_by int references workers(id),
            updated_at timestamp,
            updated_by int references workers(id),
            deleted_at timestamp,
            deleted_by int references workers(id),
            unique (project_id, skill, category)
        );`,
	},
	{
		Index:       11,
		Description: "Create table: wage_records.",
		Query: `
        CREATE TABLE IF NOT EXISTS wage_records (
            id serial primary key,
            attendance_id int not null references attendance_records(id),
            hourly_rate numeric not null default 0,
            worked_hours numeric not null default 0,
            total numeric not null default 0,
            status text not null default 'PENDING',
            created_at timestamp default now(),
            created_by int references workers(id),
            updated_at timestamp,
            updated_by int references workers(id),
            deleted_at timestamp,
            deleted_by int references workers(id),
            unique (attendance_id)
        );`,
	},
	{
		Index:       12,
		Description: "Create table: sync_outcomes.",
		Query: `
        CREATE TABLE IF NOT EXISTS sync_outcomes (
            id serial primary key,
            action_id uuid not null unique,
            worker_id int references workers(id),
            entity_id int,
            status text not null,
            reason text,
            created_at timestamp default now()
        );`,
	},
	{
		Index:       13,
		Description: "Create table: blacklist_entries.",
		Query: `
        CREATE TABLE IF NOT EXISTS blacklist_entries (
            id serial primary key,
            organization_id int,
            worker_id int not null references workers(id),
            expires_at timestamp not null,
            created_at timestamp default now(),
            created_by int references workers(id),
            updated_at timestamp,
            updated_by int references workers(id),
            deleted_at timestamp,
            deleted_by int references workers(id)
        );`,
	},
	{
		Index:       14,
		Description: "Create table: transition_events.",
		Query: `
        CREATE TABLE IF NOT EXISTS transition_events (
            id uuid primary key,
            worker_id int,
            project_id int,
            attendance_id int,
            event_type text not null,
            detail jsonb,
            created_at timestamp default now()
        );`,
	},
	{
		Index:       15,
		Description: "Lookup index for a worker's day.",
		Query: `
        CREATE INDEX IF NOT EXISTS attendance_records_worker_day_idx
            ON attendance_records (worker_id, work_day);`,
	},
}

func Migrate(db *postgresql.Database) {
	for _, s := range scheme {
		if _, err := db.Query(s.Query); err != nil {
			log.Fatalln("migrate error", err)
		}
	}
}

func MigrateUP(db *postgresql.Database) {
	var (
		version int
		dirty   bool
		er      *string
	)
	err := db.QueryRow("SELECT version, dirty, error FROM schema_migrations").Scan(&version, &dirty, &er)
	if err != nil {
		if err.Error() == `ERROR: relation "schema_migrations" does not exist (SQLSTATE=42P01)` {
			if _, err = db.Exec(`
				CREATE TABLE IF NOT EXISTS schema_migrations (version int not null, dirty bool not null, error text);
				DELETE FROM schema_migrations;
				INSERT INTO schema_migrations (version, dirty) values (0, false);
			`); err != nil {
				log.Fatalln("migrate schema_migrations create error", err)
			}
			version = 0
			dirty = false
		} else {
			log.Fatalln("migrate schema_migrations scan: ", err)
		}
	}

	if dirty {
		for _, v := range scheme {
			if v.Index == version {
				if _, err = db.Exec(v.Query); err != nil {
					if _, err = db.Exec(fmt.Sprintf(`UPDATE schema_migrations SET error = '%s'`, err.Error())); err != nil {
						log.Fatalln("migrate error", err)
					}
					log.Fatalln(fmt.Sprintf("migrate error version: %d", version), err)
				}
				if _, err = db.Exec(`UPDATE schema_migrations SET dirty = false, error = null`); err != nil {
					log.Fatalln("migrate error", err)
				}
			}
		}
	}

	for _, s := range scheme {
		if s.Index > version {
			if _, err = db.Exec(s.Query); err != nil {
				if _, err = db.Exec(fmt.Sprintf(`UPDATE schema_migrations SET error = '%s', version = %d, dirty = true`, err.Error(), s.Index)); err != nil {
					log.Fatalln("migrate error", err)
				}
				log.Fatalln(fmt.Sprintf("migrate error version: %d", s.Index), err)
			}
			if _, err = db.Exec(fmt.Sprintf(`UPDATE schema_migrations SET version = %d`, s.Index)); err != nil {
				log.Fatalln("migrate error", err)
			}
		}
	}
}
