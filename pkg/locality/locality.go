// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package locality provides replacement lists: built-in locality sets and a
// parser for user supplied line-oriented lists.
package locality

import (
	"bufio"
	"io"
	"sort"
	"strings"

	"gitlab.com/tozd/go/errors"
)

// DefaultList is the list used when no other source is configured
const DefaultList = "es-provinces"

// ErrUnknownList is returned when a built-in list name is not registered
var ErrUnknownList = errors.Base("unknown replacement list")

// esProvinces keeps the order the generated rows are emitted in
var esProvinces = []string{
	"Almería", "Cádiz", "Córdoba", "Granada", "Huelva", "Jaén", "Málaga", "Sevilla",
	"Huesca", "Teruel", "Zaragoza", "Asturias", "Baleares", "Las Palmas", "Santa Cruz de Tenerife",
	"Cantabria", "Ávila", "Burgos", "León", "Palencia", "Salamanca", "Segovia", "Soria", "Valladolid",
	"Zamora", "Albacete", "Ciudad Real", "Cuenca", "Guadalajara", "Toledo", "Barcelona", "Girona",
	"Lleida", "Tarragona", "Badajoz", "Cáceres", "A Coruña", "Lugo", "Ourense", "Pontevedra", "Madrid",
	"Murcia", "Navarra", "La Rioja", "Álava", "Gipuzkoa", "Bizkaia", "Alicante", "Castellón", "Valencia",
	"Ceuta", "Melilla",
}

var builtins = map[string][]string{
	DefaultList: esProvinces,
}

// 📚 Builtin returns a copy of the named built-in list
func Builtin(name string) ([]string, bool) {
	list, ok := builtins[name]
	if !ok {
		return nil, false
	}
	out := make([]string, len(list))
	copy(out, list)
	return out, true
}

// Lookup is Builtin returning ErrUnknownList for unregistered names
func Lookup(name string) ([]string, error) {
	list, ok := Builtin(name)
	if !ok {
		return nil, errors.Errorf("looking up %q (known: %s): %w", name, strings.Join(Names(), ", "), ErrUnknownList)
	}
	return list, nil
}

// Names returns the registered built-in list names, sorted
func Names() []string {
	names := make([]string, 0, len(builtins))
	for name := range builtins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// 📝 ParseList reads one entry per line. Entries are trimmed, blank lines are
// skipped and repeated entries keep their first position.
func ParseList(r io.Reader) ([]string, error) {
	scanner := bufio.NewScanner(r)
	seen := make(map[string]struct{})
	var out []string

	first := true
	for scanner.Scan() {
		line := scanner.Text()
		if first {
			line = strings.TrimPrefix(line, "\ufeff")
			first = false
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if _, ok := seen[line]; ok {
			continue
		}
		seen[line] = struct{}{}
		out = append(out, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Errorf("reading replacement list: %w", err)
	}

	return out, nil
}

// Dedupe drops repeated values keeping first occurrence order
func Dedupe(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
