package postgres

// Schema is the persistent layout the registry expects. It is applied
// by cmd/provision, never by the runtime: the service assumes the
// tables and constraints already exist.
//
// projects.project_no UNIQUE is the linearization point for number
// allocation; everything else is ordinary CRUD state.
const Schema = `
CREATE TABLE IF NOT EXISTS users (
    id           BIGSERIAL PRIMARY KEY,
    username     VARCHAR(50)  UNIQUE NOT NULL,
    password     VARCHAR(100) NOT NULL,
    realname     VARCHAR(50),
    department   VARCHAR(100),
    created_date TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS projects (
    id                         BIGSERIAL PRIMARY KEY,
    project_no                 VARCHAR(50) UNIQUE NOT NULL,
    project_name               VARCHAR(200) NOT NULL,
    project_type               VARCHAR(50) NOT NULL,
    type_code                  VARCHAR(3) NOT NULL,
    status                     VARCHAR(20) NOT NULL DEFAULT 'active',
    manager                    VARCHAR(100) NOT NULL,
    business_execution_partner VARCHAR(100),
    department                 VARCHAR(100),
    estimated_fee              NUMERIC(18,2) NOT NULL DEFAULT 0,
    project_date               DATE,
    base_date                  DATE,
    client                     VARCHAR(200) NOT NULL,
    evaluation_object          TEXT NOT NULL DEFAULT '',
    evaluation_scope           TEXT NOT NULL DEFAULT '',
    purpose                    TEXT NOT NULL DEFAULT '',
    related_contract_no        VARCHAR(100),
    remark                     TEXT,
    created_by                 VARCHAR(50),
    created_date               TIMESTAMPTZ NOT NULL DEFAULT now(),
    updated_date               TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_projects_project_no   ON projects (project_no);
CREATE INDEX IF NOT EXISTS idx_projects_type_code    ON projects (type_code);
CREATE INDEX IF NOT EXISTS idx_projects_created_date ON projects (created_date);
CREATE INDEX IF NOT EXISTS idx_projects_client       ON projects (client);
`
