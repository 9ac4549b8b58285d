package identitydb

import "testing"

func sampleDB() *DB {
	db := New()
	db.Add(Identity{
		ID:        "euler-pentagonal",
		Name:      "Euler's Pentagonal Number Theorem",
		Tags:      []string{"Euler", "Pentagonal"},
		Functions: []string{"etaq", "prodmake"},
		LHS:       "(q;q)_infinity",
		RHS:       "sum (-1)^k q^(k(3k-1)/2)",
	})
	db.Add(Identity{
		ID:        "jacobi-triple-product",
		Name:      "Jacobi Triple Product",
		Tags:      []string{"Jacobi", "theta"},
		Functions: []string{"tripleprod"},
		LHS:       "tripleprod(z,q)",
		RHS:       "sum z^k q^(k^2)",
	})
	return db
}

func TestSearchByTagCaseInsensitive(t *testing.T) {
	db := sampleDB()
	got := db.SearchByTag("EULER")
	if len(got) != 1 || got[0].ID != "euler-pentagonal" {
		t.Fatalf("SearchByTag(EULER) = %v, want [euler-pentagonal]", got)
	}
}

func TestSearchByFunction(t *testing.T) {
	db := sampleDB()
	got := db.SearchByFunction("TRIPLEPROD")
	if len(got) != 1 || got[0].ID != "jacobi-triple-product" {
		t.Fatalf("SearchByFunction(TRIPLEPROD) = %v, want [jacobi-triple-product]", got)
	}
}

func TestSearchSubstring(t *testing.T) {
	db := sampleDB()
	got := db.Search("pentagonal")
	if len(got) != 1 || got[0].ID != "euler-pentagonal" {
		t.Fatalf("Search(pentagonal) = %v, want [euler-pentagonal]", got)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	db := sampleDB()
	data, err := db.Save()
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	loaded, err := Load(data)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(loaded.All()) != 2 {
		t.Fatalf("round-tripped DB has %d identities, want 2", len(loaded.All()))
	}
	got := loaded.SearchByTag("jacobi")
	if len(got) != 1 || got[0].ID != "jacobi-triple-product" {
		t.Fatalf("round-tripped SearchByTag(jacobi) = %v, want [jacobi-triple-product]", got)
	}
}
