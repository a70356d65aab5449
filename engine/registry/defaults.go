package registry

import "github.com/nathoo/biorome/types"

// Default returns the built-in requirement table shipped with the game.
// The Lua content in content/biorome declares the same lists; Default exists
// so callers without a content directory still get a working registry.
func Default() *Registry {
	b := NewBuilder()

	// Tools are catalogued as type "tool" with the tool kind as subtype.
	gripper := TS("tool", "gripper")
	suction := TS("tool", "suction")
	digger := TS("tool", "digger")
	brush := TS("tool", "brush")
	saw := TS("tool", "cutter")
	blades := TS("tool", "rotatingblades")

	smallPicker := []types.Requirement{T("transport"), T("battery"), TS("arm", "small"), gripper}
	orchard := []types.Requirement{T("transport"), T("battery"), TS("arm", "medium"), T("cart"), gripper}
	timber := []types.Requirement{T("transport"), T("battery"), TS("arm", "heavy"), T("cart"), saw}
	grain := []types.Requirement{T("transport"), T("battery"), TS("arm", "medium"), blades, T("cart")}
	mower := []types.Requirement{T("transport"), T("battery"), blades}
	livestock := []types.Requirement{T("transport"), T("battery"), TS("cart", "animal")}
	poultry := []types.Requirement{T("transport"), T("battery"), T("cage")}
	eggs := []types.Requirement{T("transport"), T("battery"), TS("camera", "rgb"), TS("arm", "small"), suction, T("cart")}

	// Crops.
	b.Add(Harvest, "corn", T("transport"), T("battery"), TS("camera", "rgb"), TS("arm", "medium"), T("cart"), gripper)
	b.Add(Harvest, "tomato", T("transport"), T("battery"), TS("camera", "rgb"), TS("arm", "medium"), gripper)
	b.Add(Harvest, "lettuce", T("transport"), T("battery"), TS("camera", "rgb"), TS("arm", "small"), gripper)
	b.Add(Harvest, "pumpkin", T("transport"), T("battery"), TS("arm", "medium"), T("cart"), saw)
	b.Add(Harvest, "carrot", T("transport"), T("battery"), TS("arm", "small"), digger)
	b.Add(Harvest, "grass", mower...)
	b.Add(Harvest, "clover", mower...)
	b.Add(Harvest, "coffee", smallPicker...)
	b.Add(Harvest, "lavender", smallPicker...)
	b.Add(Harvest, "strawberry", smallPicker...)
	b.Add(Harvest, "blueberry", smallPicker...)
	b.Add(Harvest, "sunflower", T("transport"), T("battery"), TS("arm", "medium"), gripper)
	b.Add(Harvest, "grape_vine", T("transport"), T("battery"), TS("arm", "small"), gripper, T("cart"))
	for _, k := range []string{"apple_tree", "pear_tree", "almond_tree", "orange_tree", "lemon_tree"} {
		b.Add(Harvest, k, orchard...)
	}
	for _, k := range []string{"oak_tree", "poplar", "willow"} {
		b.Add(Harvest, k, timber...)
	}
	for _, k := range []string{"wheat", "barley", "oats"} {
		b.Add(Harvest, k, grain...)
	}

	// Animal products.
	b.Add(Harvest, "milk", T("transport"), T("battery"), TS("arm", "medium"), gripper)
	b.Add(Harvest, "goat_milk", smallPicker...)
	b.Add(Harvest, "eggs", eggs...)
	b.Add(Harvest, "duck_eggs", eggs...)
	b.Add(Harvest, "honey", T("transport"), T("battery"), TS("arm", "small"), TS("extractor", "honey"))
	b.Add(Harvest, "wool", T("transport"), T("battery"), TS("arm", "small"), brush)

	// Animals.
	for _, k := range []string{"cow", "goat", "sheep", "pig", "horse", "donkey"} {
		b.Add(Harvest, k, livestock...)
	}
	for _, k := range []string{"chicken", "duck", "rabbit"} {
		b.Add(Harvest, k, poultry...)
	}
	b.Add(Harvest, "bee", T("transport"), T("battery"), TS("box", "hive"))

	b.Add(Sowing, KeySeed, T("transport"), T("arm"), TS("tool", "seeder"), TS("tool", "borer"))
	b.Add(Sowing, KeySeedling, T("transport"), T("arm"), T("cart"), gripper)

	b.Add(Animal, KeyMove, T("transport"), T("arm"), T("cart"), TS("alarm", "electric"))
	b.Add(Animal, KeyCollar, T("collar"), TS("alarm", "electric"), TS("alarm", "sound"), T("battery"), T("gps"))

	r, err := b.Build()
	if err != nil {
		// The table above is static; a failure here is a programming error.
		panic(err)
	}
	return r
}
