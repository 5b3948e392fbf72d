package constellation

import "math"

type centre struct {
	name   string
	raHour float64
	decDeg float64
}

func (c centre) raRad() float64  { return c.raHour * 15 * math.Pi / 180 }
func (c centre) decRad() float64 { return c.decDeg * math.Pi / 180 }

// centres holds approximate J2000 centres of the 88 IAU constellations.
// Serpens is split into Caput and Cauda, both reported as "Serpens".
var centres = []centre{
	{"Andromeda", 0.81, 37.4},
	{"Antlia", 10.27, -32.5},
	{"Apus", 16.14, -75.3},
	{"Aquarius", 22.29, -10.8},
	{"Aquila", 19.67, 3.4},
	{"Ara", 17.37, -56.6},
	{"Aries", 2.64, 20.8},
	{"Auriga", 6.07, 42.0},
	{"Bootes", 14.71, 31.2},
	{"Caelum", 4.70, -37.9},
	{"Camelopardalis", 8.86, 69.4},
	{"Cancer", 8.65, 19.8},
	{"Canes Venatici", 13.11, 40.1},
	{"Canis Major", 6.83, -22.1},
	{"Canis Minor", 7.65, 6.4},
	{"Capricornus", 21.05, -18.0},
	{"Carina", 8.70, -63.2},
	{"Cassiopeia", 1.32, 62.2},
	{"Centaurus", 13.07, -47.3},
	{"Cepheus", 22.0, 71.0},
	{"Cetus", 1.67, -7.2},
	{"Chamaeleon", 10.69, -79.2},
	{"Circinus", 14.57, -63.0},
	{"Columba", 5.86, -35.1},
	{"Coma Berenices", 12.79, 23.3},
	{"Corona Australis", 18.65, -41.1},
	{"Corona Borealis", 15.84, 32.6},
	{"Corvus", 12.44, -18.4},
	{"Crater", 11.39, -15.9},
	{"Crux", 12.45, -60.2},
	{"Cygnus", 20.59, 44.5},
	{"Delphinus", 20.69, 11.7},
	{"Dorado", 5.24, -59.4},
	{"Draco", 15.14, 67.0},
	{"Equuleus", 21.19, 7.8},
	{"Eridanus", 3.30, -28.8},
	{"Fornax", 2.80, -31.6},
	{"Gemini", 7.07, 22.6},
	{"Grus", 22.46, -46.4},
	{"Hercules", 17.39, 27.5},
	{"Horologium", 3.28, -53.3},
	{"Hydra", 11.61, -14.5},
	{"Hydrus", 2.34, -69.9},
	{"Indus", 21.97, -59.7},
	{"Lacerta", 22.46, 46.0},
	{"Leo", 10.67, 13.1},
	{"Leo Minor", 10.25, 32.1},
	{"Lepus", 5.57, -19.0},
	{"Libra", 15.20, -15.2},
	{"Lupus", 15.22, -42.7},
	{"Lynx", 7.99, 47.5},
	{"Lyra", 18.85, 36.7},
	{"Mensa", 5.42, -77.5},
	{"Microscopium", 20.96, -36.3},
	{"Monoceros", 7.06, 0.3},
	{"Musca", 12.59, -70.2},
	{"Norma", 15.90, -51.4},
	{"Octans", 23.0, -82.2},
	{"Ophiuchus", 17.39, -7.9},
	{"Orion", 5.58, 5.9},
	{"Pavo", 19.61, -65.8},
	{"Pegasus", 22.70, 19.5},
	{"Perseus", 3.18, 45.0},
	{"Phoenix", 0.93, -48.6},
	{"Pictor", 5.71, -53.5},
	{"Pisces", 0.48, 13.7},
	{"Piscis Austrinus", 22.28, -30.6},
	{"Puppis", 7.25, -31.2},
	{"Pyxis", 8.95, -27.4},
	{"Reticulum", 3.92, -59.6},
	{"Sagitta", 19.65, 18.9},
	{"Sagittarius", 19.10, -28.5},
	{"Scorpius", 16.89, -27.0},
	{"Sculptor", 0.44, -32.1},
	{"Scutum", 18.70, -9.9},
	{"Serpens", 15.85, 10.5},
	{"Serpens", 18.25, -5.0},
	{"Sextans", 10.27, -2.6},
	{"Taurus", 4.70, 14.9},
	{"Telescopium", 19.33, -51.0},
	{"Triangulum", 2.18, 31.5},
	{"Triangulum Australe", 16.08, -65.4},
	{"Tucana", 23.78, -65.8},
	{"Ursa Major", 11.31, 50.7},
	{"Ursa Minor", 15.0, 77.7},
	{"Vela", 9.58, -47.2},
	{"Virgo", 13.41, -4.2},
	{"Volans", 7.79, -69.8},
	{"Vulpecula", 20.23, 24.4},
}
