package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"

	"crewsched/pkg/domain"
)

// InstanceHash вычисляет хеш экземпляра задачи для использования как ключ кэша
func InstanceHash(inst *domain.Instance) string {
	if inst == nil {
		return ""
	}

	data := instanceToCanonical(inst)
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:16])
}

// instanceToCanonical создаёт детерминированное представление экземпляра.
// Имя экземпляра не участвует: два файла с одинаковым содержимым дают один ключ.
func instanceToCanonical(inst *domain.Instance) []byte {
	// Сортируем аэропорты
	airports := inst.SortedAirports()

	// Сортируем рейсы
	flights := make([]domain.Flight, len(inst.Flights))
	copy(flights, inst.Flights)
	sort.Slice(flights, func(i, j int) bool {
		a, b := flights[i], flights[j]
		if a.DepartureAirport != b.DepartureAirport {
			return a.DepartureAirport < b.DepartureAirport
		}
		if a.ArrivalAirport != b.ArrivalAirport {
			return a.ArrivalAirport < b.ArrivalAirport
		}
		if a.DepartureTime != b.DepartureTime {
			return a.DepartureTime < b.DepartureTime
		}
		return a.ArrivalTime < b.ArrivalTime
	})

	// Строим каноническую строку
	var result []byte

	for _, a := range airports {
		result = append(result, []byte(fmt.Sprintf("a:%s;", a))...)
	}

	for _, f := range flights {
		result = append(result, []byte(fmt.Sprintf("f:%s:%s:%d:%d;",
			f.DepartureAirport, f.ArrivalAirport, f.DepartureTime, f.ArrivalTime))...)
	}

	return result
}

// BuildScheduleKey строит ключ кэша для результата планирования
func BuildScheduleKey(instanceHash, algorithm string) string {
	return fmt.Sprintf("schedule:%s:%s", algorithm, instanceHash)
}

// QuickHash быстрый хеш для произвольных данных
func QuickHash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}

// ShortHash короткий хеш (16 символов)
func ShortHash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:8])
}
