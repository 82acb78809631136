package common

// AgriquestBlock is a geographic block code of the AgriQuest crop monitoring API
type AgriquestBlock int

const (
	BlockFirstLevel             AgriquestBlock = 129
	BlockAmuAustraliaLevel1     AgriquestBlock = 205
	BlockAmuAustraliaLevel2     AgriquestBlock = 206
	BlockAmuChina               AgriquestBlock = 202
	BlockAmuEuropeRussia        AgriquestBlock = 197
	BlockAmuIndia               AgriquestBlock = 204
	BlockAmuMexico              AgriquestBlock = 212
	BlockAmuNorthAmerica        AgriquestBlock = 207
	BlockAmuSouthAfrica         AgriquestBlock = 213
	BlockBmRegions              AgriquestBlock = 139
	BlockCar                    AgriquestBlock = 140
	BlockCounty                 AgriquestBlock = 141
	BlockFraCantons             AgriquestBlock = 216
	BlockFraCommunes            AgriquestBlock = 135
	BlockFraDepartements        AgriquestBlock = 226
	BlockMesoregion             AgriquestBlock = 131
	BlockNorthAfricaAmu         AgriquestBlock = 125
	BlockRaion                  AgriquestBlock = 127
	BlockSerbia                 AgriquestBlock = 132
	BlockSouthAmericaMunicipios AgriquestBlock = 267
	BlockSouthAmericaAmu        AgriquestBlock = 115
	BlockSpainComarcas          AgriquestBlock = 136
	BlockUsAsd                  AgriquestBlock = 130
	BlockWesternAfricaAmu       AgriquestBlock = 122
)

// France returns whether the block is one of the blocks dedicated to France
func (b AgriquestBlock) France() bool {
	return b == BlockFraCantons || b == BlockFraCommunes || b == BlockFraDepartements
}

// AgriquestCommodity is a commodity code of the AgriQuest crop monitoring API
type AgriquestCommodity int

const (
	AllVegetation AgriquestCommodity = 33
	AllCrops      AgriquestCommodity = 35
)

// AgriquestWeatherType is a weather analytic of the AgriQuest crop monitoring API
type AgriquestWeatherType string

const (
	CumulativePrecipitation AgriquestWeatherType = "cumulative-precipitation"
	MinTemperature          AgriquestWeatherType = "min-temperature"
	AverageTemperature      AgriquestWeatherType = "average-temperature"
	MaxTemperature          AgriquestWeatherType = "max-temperature"
	MaxWindSpeed            AgriquestWeatherType = "max-wind-speed"
	RelativeHumidity        AgriquestWeatherType = "relative-humidity"
	SnowDepth               AgriquestWeatherType = "snow-depth"
	SoilMoisture            AgriquestWeatherType = "soil-moisture"
	SolarRadiation          AgriquestWeatherType = "solar-radiation"
)
