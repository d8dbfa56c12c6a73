package querybuilder

import "testing"

func TestSelectBuilder(t *testing.T) {
	query, args, err := Select("id", "name").
		From("players").
		Where(ILike("name", "%james%"), Eq("is_active", true)).
		OrderBy("name").
		Limit(25).
		Offset(50).
		ToSQL()
	if err != nil {
		t.Fatalf("build select query: %v", err)
	}

	wantQuery := "SELECT id, name FROM players WHERE name ILIKE $1 AND is_active = $2 ORDER BY name LIMIT 25 OFFSET 50"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 2 || args[0] != "%james%" || args[1] != true {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestInsertBuilderSuffix(t *testing.T) {
	query, args, err := InsertInto("teams").
		Columns("nba_team_id", "name").
		Values(int64(14), "Los Angeles Lakers").
		Suffix("ON CONFLICT (nba_team_id) DO NOTHING RETURNING id").
		ToSQL()
	if err != nil {
		t.Fatalf("build insert query: %v", err)
	}

	wantQuery := "INSERT INTO teams (nba_team_id, name) VALUES ($1, $2) ON CONFLICT (nba_team_id) DO NOTHING RETURNING id"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 2 || args[0] != int64(14) {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestUpdateBuilder(t *testing.T) {
	query, args, err := Update("bets").
		Set("status", "won").
		SetExpr("settled_at", "NOW()").
		Where(Eq("id", int64(7))).
		ToSQL()
	if err != nil {
		t.Fatalf("build update query: %v", err)
	}

	wantQuery := "UPDATE bets SET status = $1, settled_at = NOW() WHERE id = $2"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 2 || args[0] != "won" || args[1] != int64(7) {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestDeleteBuilderRequiresWhere(t *testing.T) {
	if _, _, err := DeleteFrom("standings").ToSQL(); err == nil {
		t.Fatal("expected error for delete without where")
	}

	query, args, err := DeleteFrom("standings").Where(Eq("season_id", int64(3))).ToSQL()
	if err != nil {
		t.Fatalf("build delete query: %v", err)
	}
	if query != "DELETE FROM standings WHERE season_id = $1" {
		t.Fatalf("unexpected query: %s", query)
	}
	if len(args) != 1 || args[0] != int64(3) {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestNotInEmptyMatchesAll(t *testing.T) {
	query, args, err := Select("id").From("players").Where(NotIn("nba_player_id", nil)).ToSQL()
	if err != nil {
		t.Fatalf("build select query: %v", err)
	}
	if query != "SELECT id FROM players WHERE 1=1" {
		t.Fatalf("unexpected query: %s", query)
	}
	if len(args) != 0 {
		t.Fatalf("unexpected args: %+v", args)
	}
}
