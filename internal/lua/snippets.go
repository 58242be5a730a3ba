package lua

import "fmt"

// FindLayer defines find_layer(lyrs, name), a recursive search through
// group layers. Include it once before calling SelectLayer.
const FindLayer = `
local function find_layer(lyrs, name)
    for i, l in ipairs(lyrs) do
        if l.name == name then return l end
        if l.isGroup and l.layers then
            local found = find_layer(l.layers, name)
            if found then return found end
        end
    end
    return nil
end`

// SelectLayer returns a fragment that makes the named layer active.
// With required set, a missing layer prints a JSON error and returns
// from the script.
func SelectLayer(name string, required bool) string {
	q := String(name)
	if required {
		return fmt.Sprintf(`
local target_layer = find_layer(spr.layers, %[1]s)
if not target_layer then
    print(json.encode({error = "Layer not found: " .. %[1]s}))
    return
end
app.layer = target_layer`, q)
	}
	return fmt.Sprintf(`
local target_layer = find_layer(spr.layers, %s)
if target_layer then app.layer = target_layer end`, q)
}
