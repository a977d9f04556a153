package ctr

// ctrMatrix maps a CTR index (row) and 1-based ranking position (column)
// to an expected organic click-through rate in percent. Row 0 covers
// result pages without organic results; richer feature mixes sit further
// down and depress the organic curve accordingly.
var ctrMatrix = [63][20]float64{
	{15.87, 12.31, 9.33, 6.80, 4.75, 3.46, 2.59, 1.99, 1.56, 1.25, 1.03, 0.86, 0.74, 0.64, 0.56, 0.50, 0.45, 0.41, 0.38, 0.35},
	{31.73, 24.62, 18.66, 13.60, 9.51, 6.92, 5.18, 3.98, 3.12, 2.51, 2.06, 1.73, 1.48, 1.28, 1.13, 1.00, 0.90, 0.82, 0.75, 0.70},
	{31.44, 24.40, 18.49, 13.48, 9.42, 6.86, 5.13, 3.94, 3.09, 2.49, 2.04, 1.71, 1.47, 1.27, 1.12, 0.99, 0.89, 0.81, 0.74, 0.69},
	{31.16, 24.18, 18.32, 13.36, 9.34, 6.80, 5.09, 3.91, 3.06, 2.46, 2.02, 1.70, 1.45, 1.26, 1.11, 0.98, 0.88, 0.81, 0.74, 0.69},
	{30.87, 23.96, 18.16, 13.23, 9.25, 6.73, 5.04, 3.87, 3.04, 2.44, 2.00, 1.68, 1.44, 1.25, 1.10, 0.97, 0.88, 0.80, 0.73, 0.68},
	{30.59, 23.73, 17.99, 13.11, 9.17, 6.67, 4.99, 3.84, 3.01, 2.42, 1.99, 1.67, 1.43, 1.23, 1.09, 0.96, 0.87, 0.79, 0.72, 0.67},
	{30.30, 23.51, 17.82, 12.99, 9.08, 6.61, 4.95, 3.80, 2.98, 2.40, 1.97, 1.65, 1.41, 1.22, 1.08, 0.95, 0.86, 0.78, 0.72, 0.67},
	{30.02, 23.29, 17.65, 12.87, 9.00, 6.55, 4.90, 3.77, 2.95, 2.37, 1.95, 1.64, 1.40, 1.21, 1.07, 0.95, 0.85, 0.78, 0.71, 0.66},
	{29.73, 23.07, 17.48, 12.74, 8.91, 6.48, 4.85, 3.73, 2.92, 2.35, 1.93, 1.62, 1.39, 1.20, 1.06, 0.94, 0.84, 0.77, 0.70, 0.66},
	{29.45, 22.85, 17.32, 12.62, 8.83, 6.42, 4.81, 3.69, 2.90, 2.33, 1.91, 1.61, 1.37, 1.19, 1.05, 0.93, 0.84, 0.76, 0.70, 0.65},
	{29.16, 22.63, 17.15, 12.50, 8.74, 6.36, 4.76, 3.66, 2.87, 2.31, 1.89, 1.59, 1.36, 1.18, 1.04, 0.92, 0.83, 0.75, 0.69, 0.64},
	{28.87, 22.40, 16.98, 12.38, 8.65, 6.30, 4.71, 3.62, 2.84, 2.28, 1.87, 1.57, 1.35, 1.16, 1.03, 0.91, 0.82, 0.75, 0.68, 0.64},
	{28.59, 22.18, 16.81, 12.25, 8.57, 6.23, 4.67, 3.59, 2.81, 2.26, 1.86, 1.56, 1.33, 1.15, 1.02, 0.90, 0.81, 0.74, 0.68, 0.63},
	{28.30, 21.96, 16.64, 12.13, 8.48, 6.17, 4.62, 3.55, 2.78, 2.24, 1.84, 1.54, 1.32, 1.14, 1.01, 0.89, 0.80, 0.73, 0.67, 0.62},
	{28.02, 21.74, 16.48, 12.01, 8.40, 6.11, 4.57, 3.51, 2.75, 2.22, 1.82, 1.53, 1.31, 1.13, 1.00, 0.88, 0.79, 0.72, 0.66, 0.62},
	{27.73, 21.52, 16.31, 11.89, 8.31, 6.05, 4.53, 3.48, 2.73, 2.19, 1.80, 1.51, 1.29, 1.12, 0.99, 0.87, 0.79, 0.72, 0.66, 0.61},
	{27.45, 21.30, 16.14, 11.76, 8.23, 5.99, 4.48, 3.44, 2.70, 2.17, 1.78, 1.50, 1.28, 1.11, 0.98, 0.86, 0.78, 0.71, 0.65, 0.61},
	{27.16, 21.07, 15.97, 11.64, 8.14, 5.92, 4.43, 3.41, 2.67, 2.15, 1.76, 1.48, 1.27, 1.10, 0.97, 0.86, 0.77, 0.70, 0.64, 0.60},
	{26.88, 20.85, 15.81, 11.52, 8.05, 5.86, 4.39, 3.37, 2.64, 2.13, 1.74, 1.47, 1.25, 1.08, 0.96, 0.85, 0.76, 0.69, 0.64, 0.59},
	{26.59, 20.63, 15.64, 11.40, 7.97, 5.80, 4.34, 3.34, 2.61, 2.10, 1.73, 1.45, 1.24, 1.07, 0.95, 0.84, 0.75, 0.69, 0.63, 0.59},
	{26.30, 20.41, 15.47, 11.27, 7.88, 5.74, 4.29, 3.30, 2.59, 2.08, 1.71, 1.43, 1.23, 1.06, 0.94, 0.83, 0.75, 0.68, 0.62, 0.58},
	{26.02, 20.19, 15.30, 11.15, 7.80, 5.67, 4.25, 3.26, 2.56, 2.06, 1.69, 1.42, 1.21, 1.05, 0.93, 0.82, 0.74, 0.67, 0.61, 0.57},
	{25.73, 19.97, 15.13, 11.03, 7.71, 5.61, 4.20, 3.23, 2.53, 2.04, 1.67, 1.40, 1.20, 1.04, 0.92, 0.81, 0.73, 0.67, 0.61, 0.57},
	{25.45, 19.75, 14.97, 10.91, 7.63, 5.55, 4.15, 3.19, 2.50, 2.01, 1.65, 1.39, 1.19, 1.03, 0.91, 0.80, 0.72, 0.66, 0.60, 0.56},
	{25.16, 19.52, 14.80, 10.78, 7.54, 5.49, 4.11, 3.16, 2.47, 1.99, 1.63, 1.37, 1.17, 1.02, 0.90, 0.79, 0.71, 0.65, 0.59, 0.56},
	{24.88, 19.30, 14.63, 10.66, 7.46, 5.43, 4.06, 3.12, 2.45, 1.97, 1.62, 1.36, 1.16, 1.00, 0.89, 0.78, 0.71, 0.64, 0.59, 0.55},
	{24.59, 19.08, 14.46, 10.54, 7.37, 5.36, 4.01, 3.08, 2.42, 1.95, 1.60, 1.34, 1.15, 0.99, 0.88, 0.78, 0.70, 0.64, 0.58, 0.54},
	{24.31, 18.86, 14.29, 10.42, 7.28, 5.30, 3.97, 3.05, 2.39, 1.92, 1.58, 1.33, 1.13, 0.98, 0.87, 0.77, 0.69, 0.63, 0.57, 0.54},
	{24.02, 18.64, 14.13, 10.30, 7.20, 5.24, 3.92, 3.01, 2.36, 1.90, 1.56, 1.31, 1.12, 0.97, 0.86, 0.76, 0.68, 0.62, 0.57, 0.53},
	{23.73, 18.42, 13.96, 10.17, 7.11, 5.18, 3.87, 2.98, 2.33, 1.88, 1.54, 1.29, 1.11, 0.96, 0.85, 0.75, 0.67, 0.61, 0.56, 0.52},
	{23.45, 18.19, 13.79, 10.05, 7.03, 5.11, 3.83, 2.94, 2.31, 1.85, 1.52, 1.28, 1.09, 0.95, 0.84, 0.74, 0.67, 0.61, 0.55, 0.52},
	{23.16, 17.97, 13.62, 9.93, 6.94, 5.05, 3.78, 2.91, 2.28, 1.83, 1.50, 1.26, 1.08, 0.93, 0.82, 0.73, 0.66, 0.60, 0.55, 0.51},
	{22.88, 17.75, 13.45, 9.81, 6.86, 4.99, 3.73, 2.87, 2.25, 1.81, 1.49, 1.25, 1.07, 0.92, 0.81, 0.72, 0.65, 0.59, 0.54, 0.50},
	{22.59, 17.53, 13.29, 9.68, 6.77, 4.93, 3.69, 2.83, 2.22, 1.79, 1.47, 1.23, 1.05, 0.91, 0.80, 0.71, 0.64, 0.58, 0.53, 0.50},
	{22.31, 17.31, 13.12, 9.56, 6.69, 4.86, 3.64, 2.80, 2.19, 1.76, 1.45, 1.22, 1.04, 0.90, 0.79, 0.70, 0.63, 0.58, 0.53, 0.49},
	{22.02, 17.09, 12.95, 9.44, 6.60, 4.80, 3.59, 2.76, 2.17, 1.74, 1.43, 1.20, 1.03, 0.89, 0.78, 0.69, 0.62, 0.57, 0.52, 0.49},
	{21.74, 16.86, 12.78, 9.32, 6.51, 4.74, 3.55, 2.73, 2.14, 1.72, 1.41, 1.19, 1.01, 0.88, 0.77, 0.69, 0.62, 0.56, 0.51, 0.48},
	{21.45, 16.64, 12.61, 9.19, 6.43, 4.68, 3.50, 2.69, 2.11, 1.70, 1.39, 1.17, 1.00, 0.87, 0.76, 0.68, 0.61, 0.55, 0.51, 0.47},
	{21.16, 16.42, 12.45, 9.07, 6.34, 4.62, 3.46, 2.65, 2.08, 1.67, 1.37, 1.15, 0.99, 0.85, 0.75, 0.67, 0.60, 0.55, 0.50, 0.47},
	{20.88, 16.20, 12.28, 8.95, 6.26, 4.55, 3.41, 2.62, 2.05, 1.65, 1.36, 1.14, 0.97, 0.84, 0.74, 0.66, 0.59, 0.54, 0.49, 0.46},
	{20.59, 15.98, 12.11, 8.83, 6.17, 4.49, 3.36, 2.58, 2.02, 1.63, 1.34, 1.12, 0.96, 0.83, 0.73, 0.65, 0.58, 0.53, 0.49, 0.45},
	{20.31, 15.76, 11.94, 8.70, 6.09, 4.43, 3.32, 2.55, 2.00, 1.61, 1.32, 1.11, 0.95, 0.82, 0.72, 0.64, 0.58, 0.52, 0.48, 0.45},
	{20.02, 15.54, 11.77, 8.58, 6.00, 4.37, 3.27, 2.51, 1.97, 1.58, 1.30, 1.09, 0.93, 0.81, 0.71, 0.63, 0.57, 0.52, 0.47, 0.44},
	{19.74, 15.31, 11.61, 8.46, 5.92, 4.30, 3.22, 2.48, 1.94, 1.56, 1.28, 1.08, 0.92, 0.80, 0.70, 0.62, 0.56, 0.51, 0.47, 0.44},
	{19.45, 15.09, 11.44, 8.34, 5.83, 4.24, 3.18, 2.44, 1.91, 1.54, 1.26, 1.06, 0.91, 0.78, 0.69, 0.61, 0.55, 0.50, 0.46, 0.43},
	{19.16, 14.87, 11.27, 8.21, 5.74, 4.18, 3.13, 2.40, 1.88, 1.52, 1.24, 1.04, 0.89, 0.77, 0.68, 0.60, 0.54, 0.50, 0.45, 0.42},
	{18.88, 14.65, 11.10, 8.09, 5.66, 4.12, 3.08, 2.37, 1.86, 1.49, 1.23, 1.03, 0.88, 0.76, 0.67, 0.59, 0.54, 0.49, 0.45, 0.42},
	{18.59, 14.43, 10.93, 7.97, 5.57, 4.06, 3.04, 2.33, 1.83, 1.47, 1.21, 1.01, 0.87, 0.75, 0.66, 0.59, 0.53, 0.48, 0.44, 0.41},
	{18.31, 14.21, 10.77, 7.85, 5.49, 3.99, 2.99, 2.30, 1.80, 1.45, 1.19, 1.00, 0.85, 0.74, 0.65, 0.58, 0.52, 0.47, 0.43, 0.40},
	{18.02, 13.98, 10.60, 7.72, 5.40, 3.93, 2.94, 2.26, 1.77, 1.43, 1.17, 0.98, 0.84, 0.73, 0.64, 0.57, 0.51, 0.47, 0.43, 0.40},
	{17.74, 13.76, 10.43, 7.60, 5.32, 3.87, 2.90, 2.22, 1.74, 1.40, 1.15, 0.97, 0.83, 0.72, 0.63, 0.56, 0.50, 0.46, 0.42, 0.39},
	{17.45, 13.54, 10.26, 7.48, 5.23, 3.81, 2.85, 2.19, 1.72, 1.38, 1.13, 0.95, 0.81, 0.70, 0.62, 0.55, 0.50, 0.45, 0.41, 0.39},
	{17.17, 13.32, 10.10, 7.36, 5.14, 3.74, 2.80, 2.15, 1.69, 1.36, 1.11, 0.94, 0.80, 0.69, 0.61, 0.54, 0.49, 0.44, 0.41, 0.38},
	{16.88, 13.10, 9.93, 7.24, 5.06, 3.68, 2.76, 2.12, 1.66, 1.34, 1.10, 0.92, 0.79, 0.68, 0.60, 0.53, 0.48, 0.44, 0.40, 0.37},
	{16.59, 12.88, 9.76, 7.11, 4.97, 3.62, 2.71, 2.08, 1.63, 1.31, 1.08, 0.90, 0.77, 0.67, 0.59, 0.52, 0.47, 0.43, 0.39, 0.37},
	{16.31, 12.65, 9.59, 6.99, 4.89, 3.56, 2.66, 2.05, 1.60, 1.29, 1.06, 0.89, 0.76, 0.66, 0.58, 0.51, 0.46, 0.42, 0.39, 0.36},
	{16.02, 12.43, 9.42, 6.87, 4.80, 3.49, 2.62, 2.01, 1.58, 1.27, 1.04, 0.87, 0.75, 0.65, 0.57, 0.51, 0.45, 0.41, 0.38, 0.35},
	{15.74, 12.21, 9.26, 6.75, 4.72, 3.43, 2.57, 1.97, 1.55, 1.24, 1.02, 0.86, 0.73, 0.63, 0.56, 0.50, 0.45, 0.41, 0.37, 0.35},
	{15.45, 11.99, 9.09, 6.62, 4.63, 3.37, 2.52, 1.94, 1.52, 1.22, 1.00, 0.84, 0.72, 0.62, 0.55, 0.49, 0.44, 0.40, 0.37, 0.34},
	{15.17, 11.77, 8.92, 6.50, 4.55, 3.31, 2.48, 1.90, 1.49, 1.20, 0.98, 0.83, 0.71, 0.61, 0.54, 0.48, 0.43, 0.39, 0.36, 0.33},
	{14.88, 11.55, 8.75, 6.38, 4.46, 3.25, 2.43, 1.87, 1.46, 1.18, 0.97, 0.81, 0.69, 0.60, 0.53, 0.47, 0.42, 0.38, 0.35, 0.33},
	{14.60, 11.33, 8.58, 6.26, 4.37, 3.18, 2.38, 1.83, 1.44, 1.15, 0.95, 0.80, 0.68, 0.59, 0.52, 0.46, 0.41, 0.38, 0.35, 0.32},
	{14.31, 11.10, 8.42, 6.13, 4.29, 3.12, 2.34, 1.79, 1.41, 1.13, 0.93, 0.78, 0.67, 0.58, 0.51, 0.45, 0.41, 0.37, 0.34, 0.32},
}
