package shader

import (
	"github.com/richinsley/goshaderplane/uniforms"
)

// --- Uniform schema ---

// Uniform names consumed by the plane programs. Changing this list is a breaking
// change for both the scene binding and the control panel.
const (
	UTime            = "uTime"
	UColor           = "uColor"
	UElevation       = "uElevation"
	UGeometrySpeed   = "uGeometrySpeed"
	UColorSpeed      = "uColorSpeed"
	UIncline         = "uIncline"
	UTilt            = "uTilt"
	UColorFrequencyX = "uColorFrequencyX"
	UColorFrequencyY = "uColorFrequencyY"
)

// PaletteSize is the length of the uColor array.
const PaletteSize = 5

// Schema returns the versioned uniform schema of the plane programs.
func Schema() []uniforms.Decl {
	return []uniforms.Decl{
		{Name: UTime, Type: uniforms.Float},
		{Name: UColor, Type: uniforms.ColorArray, Len: PaletteSize},
		{Name: UElevation, Type: uniforms.Float},
		{Name: UGeometrySpeed, Type: uniforms.Float},
		{Name: UColorSpeed, Type: uniforms.Float},
		{Name: UIncline, Type: uniforms.Float},
		{Name: UTilt, Type: uniforms.Float},
		{Name: UColorFrequencyX, Type: uniforms.Float},
		{Name: UColorFrequencyY, Type: uniforms.Float},
	}
}

// Transform uniforms written by the renderer, not part of the schema.
const (
	ProjectionMatrix = "projectionMatrix"
	ModelViewMatrix  = "modelViewMatrix"
)

// Vertex attribute locations shared by geometry upload and the vertex program.
const (
	AttribPosition = 0
	AttribUV       = 1
)

// --- Plane programs (WebGL2) ---

// Simplex noise by Ian McEwan, Ashima Arts (MIT).
const noiseGLSL = `
vec4 permute(vec4 x) { return mod(((x * 34.0) + 1.0) * x, 289.0); }
vec4 taylorInvSqrt(vec4 r) { return 1.79284291400159 - 0.85373472095314 * r; }

float snoise(vec3 v) {
    const vec2 C = vec2(1.0 / 6.0, 1.0 / 3.0);
    const vec4 D = vec4(0.0, 0.5, 1.0, 2.0);

    vec3 i  = floor(v + dot(v, C.yyy));
    vec3 x0 = v - i + dot(i, C.xxx);

    vec3 g = step(x0.yzx, x0.xyz);
    vec3 l = 1.0 - g;
    vec3 i1 = min(g.xyz, l.zxy);
    vec3 i2 = max(g.xyz, l.zxy);

    vec3 x1 = x0 - i1 + C.xxx;
    vec3 x2 = x0 - i2 + 2.0 * C.xxx;
    vec3 x3 = x0 - 1.0 + 3.0 * C.xxx;

    i = mod(i, 289.0);
    vec4 p = permute(permute(permute(
                i.z + vec4(0.0, i1.z, i2.z, 1.0))
              + i.y + vec4(0.0, i1.y, i2.y, 1.0))
              + i.x + vec4(0.0, i1.x, i2.x, 1.0));

    float n_ = 1.0 / 7.0;
    vec3 ns = n_ * D.wyz - D.xzx;

    vec4 j = p - 49.0 * floor(p * ns.z * ns.z);

    vec4 x_ = floor(j * ns.z);
    vec4 y_ = floor(j - 7.0 * x_);

    vec4 x = x_ * ns.x + ns.yyyy;
    vec4 y = y_ * ns.x + ns.yyyy;
    vec4 h = 1.0 - abs(x) - abs(y);

    vec4 b0 = vec4(x.xy, y.xy);
    vec4 b1 = vec4(x.zw, y.zw);

    vec4 s0 = floor(b0) * 2.0 + 1.0;
    vec4 s1 = floor(b1) * 2.0 + 1.0;
    vec4 sh = -step(h, vec4(0.0));

    vec4 a0 = b0.xzyw + s0.xzyw * sh.xxyy;
    vec4 a1 = b1.xzyw + s1.xzyw * sh.zzww;

    vec3 p0 = vec3(a0.xy, h.x);
    vec3 p1 = vec3(a0.zw, h.y);
    vec3 p2 = vec3(a1.xy, h.z);
    vec3 p3 = vec3(a1.zw, h.w);

    vec4 norm = taylorInvSqrt(vec4(dot(p0, p0), dot(p1, p1), dot(p2, p2), dot(p3, p3)));
    p0 *= norm.x;
    p1 *= norm.y;
    p2 *= norm.z;
    p3 *= norm.w;

    vec4 m = max(0.6 - vec4(dot(x0, x0), dot(x1, x1), dot(x2, x2), dot(x3, x3)), 0.0);
    m = m * m;
    return 42.0 * dot(m * m, vec4(dot(p0, x0), dot(p1, x1), dot(p2, x2), dot(p3, x3)));
}
`

const planeVertexShaderSource = `#version 300 es
precision highp float;

uniform mat4 projectionMatrix;
uniform mat4 modelViewMatrix;

uniform float uTime;
uniform vec3  uColor[5];
uniform float uElevation;
uniform float uGeometrySpeed;
uniform float uColorSpeed;
uniform float uIncline;
uniform float uTilt;
uniform float uColorFrequencyX;
uniform float uColorFrequencyY;

layout(location = 0) in vec3 position;
layout(location = 1) in vec2 uv;

out vec3 vColor;
` + noiseGLSL + `
void main() {
    vec2 noiseCoord = uv * vec2(3.0, 4.0);

    float tilt = -0.8 * uv.y;
    float incline = uv.x * uIncline;
    float offset = incline * mix(uTilt, 0.0, uv.y);

    float n = snoise(vec3(noiseCoord.x + uTime * 3.0 * uGeometrySpeed, noiseCoord.y, uTime * uGeometrySpeed));
    n = max(0.0, n);

    vec3 pos = vec3(position.x, position.y, position.z + n * uElevation + tilt + incline + offset);

    vColor = uColor[4];
    for (int i = 0; i < 4; i++) {
        float flow = 5.0 + float(i) * 0.3;
        float speed = 6.0 + float(i) * 0.3;
        float seed = 1.0 + float(i) * 10.0;
        vec2 freq = vec2(uColorFrequencyX, uColorFrequencyY);

        float noise = smoothstep(0.4, 0.6, snoise(vec3(
            noiseCoord.x * freq.x + uTime * uColorSpeed * flow,
            noiseCoord.y * freq.y,
            uTime * uColorSpeed * speed + seed)));

        vColor = mix(vColor, uColor[i], noise);
    }

    gl_Position = projectionMatrix * modelViewMatrix * vec4(pos, 1.0);
}
`

const planeFragmentShaderSource = `#version 300 es
precision highp float;

in vec3 vColor;
out vec4 fragColor;

void main() {
    fragColor = vec4(vColor, 1.0);
}
`

// --- Desktop GL ---

const quadVertexShaderSourceGL = `#version 410 core
layout (location = 0) in vec2 in_vert;
out vec2 frag_uv;
void main() {
    frag_uv = in_vert * 0.5 + 0.5;
    gl_Position = vec4(in_vert, 0.0, 1.0);
}
`

const blitFragmentShaderSourceGL = `#version 410 core
in vec2 frag_uv;
out vec4 fragColor;
uniform sampler2D u_texture;
void main() { fragColor = texture(u_texture, frag_uv); }
`

// --- Public API ---

// PlaneVertexShader returns the WebGL2 vertex program of the plane. It must be
// translated before it is compiled for desktop GL.
func PlaneVertexShader() string { return planeVertexShaderSource }

// PlaneFragmentShader returns the WebGL2 fragment program of the plane.
func PlaneFragmentShader() string { return planeFragmentShaderSource }

func QuadVertexShader() string { return quadVertexShaderSourceGL }

func BlitFragmentShader() string { return blitFragmentShaderSourceGL }
