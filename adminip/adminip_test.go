/*
 * This file is part of ottracker.
 *
 * ottracker is free software: you can redistribute it and/or modify
 * it under the terms of the GNU General Public License as published by
 * the Free Software Foundation, either version 3 of the License, or
 * (at your option) any later version.
 *
 * ottracker is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU General Public License
 * along with ottracker.  If not, see <http://www.gnu.org/licenses/>.
 */

package adminip

import (
	"net/netip"
	"testing"
)

func TestBlessAndIsBlessed(t *testing.T) {
	tbl := NewTable()
	addr := netip.MustParseAddr("192.0.2.1")

	if tbl.IsBlessed(addr, MayStat) {
		t.Fatal("expected an unblessed address to fail IsBlessed")
	}

	if err := tbl.Bless(addr, MayStat); err != nil {
		t.Fatalf("Bless: %v", err)
	}

	if !tbl.IsBlessed(addr, MayStat) {
		t.Fatal("expected the blessed address to pass IsBlessed")
	}

	if tbl.IsBlessed(addr, MayFullscrape) {
		t.Fatal("expected an unrelated permission bit to still be denied")
	}
}

func TestBlessAccumulatesPermissions(t *testing.T) {
	tbl := NewTable()
	addr := netip.MustParseAddr("192.0.2.2")

	if err := tbl.Bless(addr, MayStat); err != nil {
		t.Fatalf("Bless: %v", err)
	}

	if err := tbl.Bless(addr, MayFullscrape); err != nil {
		t.Fatalf("Bless: %v", err)
	}

	if !tbl.IsBlessed(addr, MayStat) || !tbl.IsBlessed(addr, MayFullscrape) {
		t.Fatal("expected a second Bless call to add to, not replace, existing permissions")
	}
}

func TestBlessNormalizesIPv4MappedIPv6(t *testing.T) {
	tbl := NewTable()

	mapped := netip.MustParseAddr("::ffff:10.0.0.1")
	if err := tbl.Bless(mapped, MayLivesync); err != nil {
		t.Fatalf("Bless: %v", err)
	}

	plain := netip.MustParseAddr("10.0.0.1")
	if !tbl.IsBlessed(plain, MayLivesync) {
		t.Fatal("expected an IPv4-mapped bless to match the plain IPv4 form")
	}
}

func TestBlessTableFull(t *testing.T) {
	tbl := NewTable()

	for i := 0; i < Max; i++ {
		addr := netip.AddrFrom4([4]byte{10, 0, byte(i / 256), byte(i % 256)})
		if err := tbl.Bless(addr, MayProxy); err != nil {
			t.Fatalf("Bless #%d: %v", i, err)
		}
	}

	overflow := netip.MustParseAddr("203.0.113.1")
	if err := tbl.Bless(overflow, MayProxy); err == nil {
		t.Fatal("expected Bless to report the table full past Max entries")
	}
}

func TestIsBlessedRequiresAllBits(t *testing.T) {
	tbl := NewTable()
	addr := netip.MustParseAddr("198.51.100.1")

	if err := tbl.Bless(addr, MayStat); err != nil {
		t.Fatalf("Bless: %v", err)
	}

	if tbl.IsBlessed(addr, MayStat|MayFullscrape) {
		t.Fatal("expected IsBlessed to require every requested bit")
	}
}
